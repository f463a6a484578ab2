package service

import (
	"fmt"
	"strings"
	"time"
)

// renderTemplate wraps a body in the shared LibraryHub HTML shell.
func renderTemplate(subject, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; background-color: #f9f9f9; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; background-color: #ffffff; border-radius: 8px; }
    .header { text-align: center; padding: 20px 0; background-color: #3b82f6; color: white; border-radius: 8px 8px 0 0; }
    .logo { font-size: 24px; font-weight: bold; margin-bottom: 10px; }
    .content { padding: 20px; }
    .button { display: inline-block; padding: 12px 24px; background-color: #3b82f6; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
    .footer { text-align: center; padding: 20px; margin-top: 20px; border-top: 1px solid #eee; color: #666; font-size: 14px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="logo">LibraryHub</div>
      <h2>%s</h2>
    </div>
    <div class="content">%s</div>
    <div class="footer">
      <p>If you didn't request this email, please ignore it.</p>
      <p>&copy; %d LibraryHub. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`, subject, subject, strings.ReplaceAll(body, "\n", "<br>"), time.Now().Year())
}

func welcomeBody(name string) string {
	return fmt.Sprintf("Hello %s,\n\nWelcome to LibraryHub! Your account is ready.\nBrowse the catalog and send your first borrow request whenever you like.", name)
}

func borrowApprovedBody(name, bookTitle, bookAuthor string, returnDate time.Time) string {
	return fmt.Sprintf("Hello %s,\n\nYour borrow request for <strong>%s</strong> by %s has been approved.\nPlease return it by <strong>%s</strong> to avoid late fees.", name, bookTitle, bookAuthor, returnDate.Format("January 2, 2006"))
}

func borrowRejectedBody(name, bookTitle, reason string) string {
	return fmt.Sprintf("Hello %s,\n\nUnfortunately your borrow request for <strong>%s</strong> was rejected.\n%s", name, bookTitle, reason)
}

func passwordResetBody(name, resetURL string) string {
	return fmt.Sprintf(`Hello %s,

You requested a password reset for your LibraryHub account.
<a class="button" href="%s">Reset Password</a>
The link is valid for one hour.`, name, resetURL)
}

func overdueReminderBody(name, bookTitle string, daysLate, fineCents int32) string {
	return fmt.Sprintf("Hello %s,\n\n<strong>%s</strong> is %d day(s) overdue.\nYour fine so far is <strong>$%.2f</strong> and it grows every day the book stays out.\nPlease return it as soon as possible.", name, bookTitle, daysLate, float64(fineCents)/100)
}
