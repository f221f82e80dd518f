package mailer

import (
	"fmt"
	"strings"

	"github.com/medyatra/credsvc/internal/model"
)

// Fixed subject lines.
const (
	CredentialsSubject = "Your MedYatra Account Credentials"
	BookingSubject     = "Your Appointment Confirmation - MedYatra"
	TestSubject        = "MedYatra Email Configuration Test"
)

// Literal defaults substituted for absent appointment fields.
const (
	DefaultDate      = "Not specified"
	DefaultTime      = "Not specified"
	DefaultClinic    = "Our Clinic"
	DefaultLocation  = "Our facility"
	DefaultTreatment = "medical consultation"
)

// BookingInput carries everything needed to compose a booking confirmation.
type BookingInput struct {
	FullName        string
	Email           string
	ClinicName      string
	Location        string
	TreatmentType   string
	AppointmentDate string
	AppointmentTime string

	// Credential block, included only when IncludeCredentials is set.
	Username string
	Password string

	IncludeCredentials bool
}

// fieldOrDefault substitutes the default when the field is absent.
func fieldOrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// CredentialsHTML builds the primary credential email body.
func CredentialsHTML(p model.CredentialPayload, loginURL string) string {
	name := fieldOrDefault(p.FirstName, "there")

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Your MedYatra Account</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="background-color: #2C3E50; padding: 24px; text-align: center;">
			<h1 style="color: #ffffff; margin: 0;">MedYatra</h1>
		</div>
		<div style="padding: 24px; background-color: #f9f9f9;">
			<h2 style="margin-top: 0;">Welcome to MedYatra</h2>
			<p>Hello %s,</p>
			<p>Your MedYatra account is ready. Use the credentials below to sign in and manage your treatment journey:</p>
			<div style="background-color: #ffffff; border: 1px solid #ddd; border-radius: 4px; padding: 16px; margin: 20px 0;">
				<p style="margin: 4px 0;"><strong>Username:</strong> %s</p>
				<p style="margin: 4px 0;"><strong>Password:</strong> %s</p>
			</div>
			<p style="margin: 30px 0; text-align: center;">
				<a href="%s" style="background-color: #1976D2; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">Log In to Your Account</a>
			</p>
			<p>For your security, please change your password after your first login.</p>
			<hr style="border: none; border-top: 1px solid #ddd; margin: 30px 0;">
			<p style="font-size: 12px; color: #666;">This is an automated message, please do not reply.</p>
		</div>
	</div>
</body>
</html>`, name, p.ID, p.Password, loginURL)
}

// CredentialsFallbackHTML builds the simplified body used when the primary
// template send fails.
func CredentialsFallbackHTML(p model.CredentialPayload, loginURL string) string {
	name := fieldOrDefault(p.FirstName, "there")

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<p>Hello %s,</p>
	<p>Your MedYatra account credentials:</p>
	<p>Username: %s<br>Password: %s</p>
	<p>Log in at: %s</p>
	<p style="font-size: 12px; color: #666;">This is an automated message, please do not reply.</p>
</body>
</html>`, name, p.ID, p.Password, loginURL)
}

// BookingConfirmationHTML builds the appointment confirmation body.
// Absent appointment fields are replaced with fixed literal defaults.
func BookingConfirmationHTML(in BookingInput, loginURL string) string {
	name := fieldOrDefault(in.FullName, "there")

	credentialBlock := ""
	if in.IncludeCredentials {
		credentialBlock = fmt.Sprintf(`
			<h3 style="margin-bottom: 8px;">Your Account Credentials</h3>
			<div style="background-color: #ffffff; border: 1px solid #ddd; border-radius: 4px; padding: 16px; margin: 12px 0;">
				<p style="margin: 4px 0;"><strong>Username:</strong> %s</p>
				<p style="margin: 4px 0;"><strong>Password:</strong> %s</p>
			</div>
			<p style="margin: 20px 0; text-align: center;">
				<a href="%s" style="background-color: #1976D2; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">View Your Appointment</a>
			</p>`, in.Username, in.Password, loginURL)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Appointment Confirmation</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="background-color: #2C3E50; padding: 24px; text-align: center;">
			<h1 style="color: #ffffff; margin: 0;">MedYatra</h1>
		</div>
		<div style="padding: 24px; background-color: #f9f9f9;">
			<h2 style="margin-top: 0;">Appointment Confirmed</h2>
			<p>Dear %s,</p>
			<p>Your appointment has been booked. Here are the details:</p>
			<div style="background-color: #ffffff; border: 1px solid #ddd; border-radius: 4px; padding: 16px; margin: 20px 0;">
				<p style="margin: 4px 0;"><strong>Clinic:</strong> %s</p>
				<p style="margin: 4px 0;"><strong>Location:</strong> %s</p>
				<p style="margin: 4px 0;"><strong>Treatment:</strong> %s</p>
				<p style="margin: 4px 0;"><strong>Date:</strong> %s</p>
				<p style="margin: 4px 0;"><strong>Time:</strong> %s</p>
			</div>%s
			<p>If you have any questions about your upcoming visit, our care team is happy to help.</p>
			<hr style="border: none; border-top: 1px solid #ddd; margin: 30px 0;">
			<p style="font-size: 12px; color: #666;">This is an automated message, please do not reply.</p>
		</div>
	</div>
</body>
</html>`,
		name,
		fieldOrDefault(in.ClinicName, DefaultClinic),
		fieldOrDefault(in.Location, DefaultLocation),
		fieldOrDefault(in.TreatmentType, DefaultTreatment),
		fieldOrDefault(in.AppointmentDate, DefaultDate),
		fieldOrDefault(in.AppointmentTime, DefaultTime),
		credentialBlock,
	)
}

// TestHTML builds the configuration test email body.
func TestHTML(firstName, lastName string) string {
	name := fieldOrDefault(strings.TrimSpace(firstName+" "+lastName), "there")

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<p>Hello %s,</p>
	<p>This is a test email from MedYatra. If you received this, the email configuration is working.</p>
</body>
</html>`, name)
}
