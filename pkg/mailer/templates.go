package mailer

import "fmt"

// ApplicationSubmitted renders the confirmation sent right after a student
// applies for a bursary.
func ApplicationSubmitted(fullName, bursaryTitle string) (subject, html string) {
	subject = fmt.Sprintf("Application Received: %s", bursaryTitle)
	html = fmt.Sprintf(`<p>Dear %s,</p>
<p>We have received your application for the bursary <strong>%s</strong>.</p>
<p>You can track its progress from your dashboard. We will notify you as soon as its status changes.</p>
<p>Best regards,<br/>Bursary Office</p>`, fullName, bursaryTitle)
	return subject, html
}

// ApplicationWithdrawn renders the acknowledgement sent after a withdrawal.
func ApplicationWithdrawn(fullName, bursaryTitle string) (subject, html string) {
	subject = fmt.Sprintf("Application Withdrawn: %s", bursaryTitle)
	html = fmt.Sprintf(`<p>Dear %s,</p>
<p>Your application for the bursary <strong>%s</strong> has been withdrawn.</p>
<p>If this was not intended, you may apply again while the bursary remains open.</p>
<p>Best regards,<br/>Bursary Office</p>`, fullName, bursaryTitle)
	return subject, html
}

// StatusChanged renders the notification for a status transition. Empty
// remarks fall back to a generic closing line.
func StatusChanged(fullName, bursaryTitle, status, remarks string) (subject, html string) {
	if remarks == "" {
		remarks = "Thank you for applying."
	}
	subject = fmt.Sprintf("Bursary Status Update: %s", status)
	html = fmt.Sprintf(`<p>Dear %s,</p>
<p>Your application for the bursary <strong>%s</strong> has been marked as: <strong>%s</strong>.</p>
<p>%s</p>
<p>Best regards,<br/>Bursary Office</p>`, fullName, bursaryTitle, status, remarks)
	return subject, html
}
