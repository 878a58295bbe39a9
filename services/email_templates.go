package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/homenest/homenest_backend/models"
)

const emailDateFormat = "January 2, 2006"

// RenderBookingStatusEmail builds the HTML body sent to the renter when the
// property owner confirms or rejects a booking.
func RenderBookingStatusEmail(booking *models.Booking, property *models.Property, renter *models.User, newStatus, action, ownerEmail string) string {
	accent := "#2e7d32"
	headline := "Booking Confirmed"
	lead := "Great news! The property owner has approved your booking request."
	if newStatus == models.BookingStatusCancelled {
		accent = "#c62828"
		headline = "Booking Rejected"
		lead = "Unfortunately, the property owner has rejected your booking request."
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	fmt.Fprintf(&b, `<h2 style="color: %s;">%s</h2>`, accent, headline)
	fmt.Fprintf(&b, `<p>Dear %s,</p>`, contactName(renter))
	fmt.Fprintf(&b, `<p>%s</p>`, lead)

	b.WriteString(`<div style="background-color: #f5f5f5; border-radius: 8px; padding: 16px; margin: 16px 0;">`)
	b.WriteString(`<h3 style="margin-top: 0;">Booking Details</h3>`)
	fmt.Fprintf(&b, `<p><strong>Property:</strong> %s</p>`, property.Title)
	fmt.Fprintf(&b, `<p><strong>Location:</strong> %s</p>`, property.Location)
	fmt.Fprintf(&b, `<p><strong>Check-in:</strong> %s</p>`, booking.StartDate.Format(emailDateFormat))
	fmt.Fprintf(&b, `<p><strong>Check-out:</strong> %s</p>`, booking.EndDate.Format(emailDateFormat))
	fmt.Fprintf(&b, `<p><strong>Monthly rent:</strong> $%.2f</p>`, booking.MonthlyPrice)
	fmt.Fprintf(&b, `<p><strong>Total price:</strong> $%.2f</p>`, booking.TotalPrice)
	fmt.Fprintf(&b, `<p><strong>Deposit due:</strong> $%.2f</p>`, booking.DepositAmount)
	b.WriteString(`</div>`)

	if newStatus == models.BookingStatusConfirmed {
		b.WriteString(`<p>Please arrange the deposit payment to secure your booking. The owner will contact you with payment instructions.</p>`)
	} else {
		b.WriteString(`<p>You can browse other available properties on our platform. Your booking has been ` + action + ` and no payment is due.</p>`)
	}

	if ownerEmail != "" {
		fmt.Fprintf(&b, `<p>If you have questions, you can reach the property owner at <a href="mailto:%s">%s</a>.</p>`, ownerEmail, ownerEmail)
	}

	b.WriteString(`<p style="color: #757575; font-size: 12px; margin-top: 24px;">This is an automated message from HomeNest. Please do not reply directly to this email.</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

// RenderBookingReceivedEmail builds the HTML body sent to the property owner
// when a new booking request comes in.
func RenderBookingReceivedEmail(booking *models.Booking, property *models.Property) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<h2 style="color: #1565c0;">New Booking Request</h2>`)
	fmt.Fprintf(&b, `<p>You have received a new booking request for <strong>%s</strong>.</p>`, property.Title)

	b.WriteString(`<div style="background-color: #f5f5f5; border-radius: 8px; padding: 16px; margin: 16px 0;">`)
	fmt.Fprintf(&b, `<p><strong>Renter:</strong> %s</p>`, booking.Name)
	fmt.Fprintf(&b, `<p><strong>Email:</strong> %s</p>`, booking.Email)
	fmt.Fprintf(&b, `<p><strong>Phone:</strong> %s</p>`, contactFallback(booking.Phone))
	fmt.Fprintf(&b, `<p><strong>Dates:</strong> %s to %s</p>`,
		booking.StartDate.Format(emailDateFormat), booking.EndDate.Format(emailDateFormat))
	fmt.Fprintf(&b, `<p><strong>Total price:</strong> $%.2f</p>`, booking.TotalPrice)
	if booking.SpecialRequests != "" {
		fmt.Fprintf(&b, `<p><strong>Special requests:</strong> %s</p>`, booking.SpecialRequests)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<p>Log in to your dashboard to confirm or reject this request.</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

// RenderPasswordResetEmail builds the HTML body carrying a password reset code
func RenderPasswordResetEmail(name, code string, expiresAt time.Time) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">`)
	b.WriteString(`<h2 style="color: #1565c0;">Password Reset</h2>`)
	fmt.Fprintf(&b, `<p>Hello %s,</p>`, name)
	b.WriteString(`<p>Use the code below to reset your password:</p>`)
	fmt.Fprintf(&b, `<div style="font-size: 28px; font-weight: bold; letter-spacing: 4px; text-align: center; padding: 16px; background-color: #f5f5f5; border-radius: 8px;">%s</div>`, code)
	fmt.Fprintf(&b, `<p>This code expires at %s. If you did not request a reset, you can ignore this email.</p>`, expiresAt.Format("15:04 MST"))
	b.WriteString(`</div>`)
	return b.String()
}
