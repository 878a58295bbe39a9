package services

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/homenest/homenest_backend/models"
)

func TestRenderBookingStatusEmail(t *testing.T) {
	booking := &models.Booking{
		ID:            primitive.NewObjectID(),
		StartDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC),
		MonthlyPrice:  1000,
		TotalPrice:    3000,
		DepositAmount: 1000,
	}
	property := &models.Property{Title: "Sea View Flat", Location: "Lisbon"}
	renter := &models.User{FirstName: "Ana", LastName: "Costa"}

	confirmed := RenderBookingStatusEmail(booking, property, renter, models.BookingStatusConfirmed, "approved", "owner@example.com")
	for _, want := range []string{"Booking Confirmed", "Ana Costa", "Sea View Flat", "Lisbon", "$3000.00", "$1000.00", "owner@example.com", "March 1, 2026"} {
		if !strings.Contains(confirmed, want) {
			t.Errorf("confirmed email missing %q", want)
		}
	}

	rejected := RenderBookingStatusEmail(booking, property, renter, models.BookingStatusCancelled, "rejected", "")
	if !strings.Contains(rejected, "Booking Rejected") {
		t.Error("rejected email missing headline")
	}
	if strings.Contains(rejected, "mailto:") {
		t.Error("rejected email should not link an empty owner address")
	}
}

func TestRenderBookingStatusEmailFallbackName(t *testing.T) {
	booking := &models.Booking{}
	property := &models.Property{Title: "Flat"}
	renter := &models.User{}

	html := RenderBookingStatusEmail(booking, property, renter, models.BookingStatusConfirmed, "approved", "")
	if !strings.Contains(html, "Dear Customer,") {
		t.Error("expected the generic salutation for a nameless renter")
	}
}

func TestRenderBookingReceivedEmail(t *testing.T) {
	booking := &models.Booking{
		Name:            "Ana Costa",
		Email:           "ana@example.com",
		StartDate:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalPrice:      1500,
		SpecialRequests: "Late check-in",
	}
	property := &models.Property{Title: "Sea View Flat"}

	html := RenderBookingReceivedEmail(booking, property)
	for _, want := range []string{"New Booking Request", "Ana Costa", "ana@example.com", "Not available", "Late check-in"} {
		if !strings.Contains(html, want) {
			t.Errorf("owner email missing %q", want)
		}
	}
}
