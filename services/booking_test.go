package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/homenest/homenest_backend/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{
			name:   "partial overlap",
			aStart: date(2026, 3, 1), aEnd: date(2026, 4, 1),
			bStart: date(2026, 3, 15), bEnd: date(2026, 4, 10),
			want: true,
		},
		{
			name:   "contained range",
			aStart: date(2026, 3, 1), aEnd: date(2026, 6, 1),
			bStart: date(2026, 4, 1), bEnd: date(2026, 5, 1),
			want: true,
		},
		{
			name:   "back to back is not a conflict",
			aStart: date(2026, 3, 1), aEnd: date(2026, 4, 1),
			bStart: date(2026, 4, 1), bEnd: date(2026, 5, 1),
			want: false,
		},
		{
			name:   "disjoint ranges",
			aStart: date(2026, 3, 1), aEnd: date(2026, 4, 1),
			bStart: date(2026, 5, 1), bEnd: date(2026, 6, 1),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPricing(t *testing.T) {
	tests := []struct {
		name         string
		start, end   time.Time
		monthlyPrice float64
		wantMonths   int
		wantTotal    float64
	}{
		{
			name:  "65 days rounds up to three months",
			start: date(2026, 3, 1), end: date(2026, 5, 5),
			monthlyPrice: 1000, wantMonths: 3, wantTotal: 3000,
		},
		{
			name:  "45 days rounds up to two months",
			start: date(2026, 3, 1), end: date(2026, 4, 15),
			monthlyPrice: 1200, wantMonths: 2, wantTotal: 2400,
		},
		{
			name:  "exactly 30 days is one month",
			start: date(2026, 3, 1), end: date(2026, 3, 31),
			monthlyPrice: 800, wantMonths: 1, wantTotal: 800,
		},
		{
			name:  "exactly 60 days is two months",
			start: date(2026, 3, 1), end: date(2026, 4, 30),
			monthlyPrice: 800, wantMonths: 2, wantTotal: 1600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationMonths(tt.start, tt.end); got != tt.wantMonths {
				t.Errorf("DurationMonths() = %d, want %d", got, tt.wantMonths)
			}
			if got := TotalPrice(tt.start, tt.end, tt.monthlyPrice); got != tt.wantTotal {
				t.Errorf("TotalPrice() = %v, want %v", got, tt.wantTotal)
			}
		})
	}
}

func TestDepositEqualsMonthlyPrice(t *testing.T) {
	if got := Deposit(1200); got != 1200 {
		t.Errorf("Deposit(1200) = %v, want 1200", got)
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		wantCode   string
	}{
		{name: "valid 30 day range", start: date(2026, 3, 1), end: date(2026, 3, 31)},
		{name: "end before start", start: date(2026, 3, 10), end: date(2026, 3, 1), wantCode: CodeInvalidDateRange},
		{name: "end equals start", start: date(2026, 3, 1), end: date(2026, 3, 1), wantCode: CodeInvalidDateRange},
		{name: "29 days is too short", start: date(2026, 3, 1), end: date(2026, 3, 30), wantCode: CodeMinimumDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDateRange(tt.start, tt.end)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ValidateDateRange() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateDateRange() = nil, want error")
			}
			if err.Code != tt.wantCode {
				t.Errorf("ValidateDateRange() code = %s, want %s", err.Code, tt.wantCode)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{models.BookingStatusPending, models.BookingStatusConfirmed}:   true,
		{models.BookingStatusPending, models.BookingStatusCancelled}:   true,
		{models.BookingStatusConfirmed, models.BookingStatusCancelled}: true,
		{models.BookingStatusConfirmed, models.BookingStatusCompleted}: true,
	}

	statuses := []string{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCancelled,
		models.BookingStatusCompleted,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{"pending", "confirmed", "cancelled", "completed"} {
		if !ValidStatus(status) {
			t.Errorf("ValidStatus(%s) = false, want true", status)
		}
	}
	for _, status := range []string{"", "approved", "PENDING", "done"} {
		if ValidStatus(status) {
			t.Errorf("ValidStatus(%s) = true, want false", status)
		}
	}
}

func TestAuthorizeTransition(t *testing.T) {
	tests := []struct {
		name               string
		role               string
		isRenter, isOwner  bool
		from, to           string
		wantErr            bool
	}{
		{name: "admin may confirm", role: models.RoleAdmin, from: "pending", to: "confirmed"},
		{name: "admin may complete", role: models.RoleAdmin, from: "confirmed", to: "completed"},
		{name: "owner may confirm pending", role: models.RoleUser, isOwner: true, from: "pending", to: "confirmed"},
		{name: "owner may cancel pending", role: models.RoleUser, isOwner: true, from: "pending", to: "cancelled"},
		{name: "owner may not complete", role: models.RoleUser, isOwner: true, from: "confirmed", to: "completed", wantErr: true},
		{name: "renter may cancel pending", role: models.RoleUser, isRenter: true, from: "pending", to: "cancelled"},
		{name: "renter may not confirm", role: models.RoleUser, isRenter: true, from: "pending", to: "confirmed", wantErr: true},
		{name: "renter may not cancel confirmed", role: models.RoleUser, isRenter: true, from: "confirmed", to: "cancelled", wantErr: true},
		{name: "stranger may not touch", role: models.RoleUser, from: "pending", to: "cancelled", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeTransition(tt.role, tt.isRenter, tt.isOwner, tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("AuthorizeTransition() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err.Code != CodeForbidden {
				t.Errorf("AuthorizeTransition() code = %s, want %s", err.Code, CodeForbidden)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-01")
	if err != nil {
		t.Fatalf("ParseDate plain date: %v", err)
	}
	if !got.Equal(date(2026, 3, 1)) {
		t.Errorf("ParseDate plain date = %v", got)
	}

	got, err = ParseDate("2026-03-01T00:00:00Z")
	if err != nil {
		t.Fatalf("ParseDate RFC3339: %v", err)
	}
	if !got.Equal(date(2026, 3, 1)) {
		t.Errorf("ParseDate RFC3339 = %v", got)
	}

	if _, err := ParseDate("03/01/2026"); err == nil {
		t.Error("ParseDate accepted an unsupported format")
	}
}

// fakeMailer fails a fixed number of times before succeeding
type fakeMailer struct {
	failures int
	calls    int
	sent     []string
}

func (m *fakeMailer) SendEmail(to, subject, html string) error {
	m.calls++
	if m.calls <= m.failures {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func newTestService(mailer Mailer) *BookingService {
	return &BookingService{mailer: mailer, retryBackoff: time.Millisecond}
}

func TestDeliverWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	mailer := &fakeMailer{failures: 2}
	svc := newTestService(mailer)

	err := svc.deliverWithRetry(context.Background(), "renter@example.com", "subject", "<p>hi</p>")
	if err != nil {
		t.Fatalf("deliverWithRetry() = %v, want nil", err)
	}
	if mailer.calls != 3 {
		t.Errorf("mailer calls = %d, want 3", mailer.calls)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "renter@example.com" {
		t.Errorf("sent = %v", mailer.sent)
	}
}

func TestDeliverWithRetryGivesUpAfterThreeAttempts(t *testing.T) {
	mailer := &fakeMailer{failures: 10}
	svc := newTestService(mailer)

	err := svc.deliverWithRetry(context.Background(), "renter@example.com", "subject", "<p>hi</p>")
	if err == nil {
		t.Fatal("deliverWithRetry() = nil, want error")
	}
	if mailer.calls != 3 {
		t.Errorf("mailer calls = %d, want exactly 3", mailer.calls)
	}
}

func TestDeliverWithRetryStopsWhenContextCancelled(t *testing.T) {
	mailer := &fakeMailer{failures: 10}
	svc := &BookingService{mailer: mailer, retryBackoff: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.deliverWithRetry(ctx, "renter@example.com", "subject", "<p>hi</p>")
	if err == nil {
		t.Fatal("deliverWithRetry() = nil, want context error")
	}
	if mailer.calls != 0 {
		t.Errorf("mailer calls = %d, want 0 after cancelled context", mailer.calls)
	}
}

func TestStaleTransitionError(t *testing.T) {
	if derr := staleTransitionError(1, models.BookingStatusPending, models.BookingStatusConfirmed); derr != nil {
		t.Fatalf("staleTransitionError(1, ...) = %v, want nil", derr)
	}

	derr := staleTransitionError(0, models.BookingStatusPending, models.BookingStatusConfirmed)
	if derr == nil {
		t.Fatal("staleTransitionError(0, ...) = nil, want error when the guarded write matched nothing")
	}
	if derr.Code != CodeInvalidTransition {
		t.Errorf("Code = %q, want %q", derr.Code, CodeInvalidTransition)
	}
}

// blockingMailer stalls like an SMTP host that accepts the dial and goes dark
type blockingMailer struct {
	delay time.Duration
}

func (m *blockingMailer) SendEmail(to, subject, html string) error {
	time.Sleep(m.delay)
	return errors.New("smtp timeout")
}

func TestDeliverWithRetryAbandonsHungSend(t *testing.T) {
	mailer := &blockingMailer{delay: 2 * time.Second}
	svc := &BookingService{mailer: mailer, retryBackoff: time.Millisecond}

	start := time.Now()
	err := svc.deliverWithRetry(context.Background(), "renter@example.com", "subject", "<p>hi</p>")
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("deliverWithRetry() = nil, want deadline error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("deliverWithRetry() = %v, want context.DeadlineExceeded", err)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("deliverWithRetry returned after %v, want return well before the hung send finishes", elapsed)
	}
}

func TestMissingContactError(t *testing.T) {
	withEmail := &models.User{Email: "renter@example.com"}
	if derr := missingContactError(withEmail); derr != nil {
		t.Fatalf("missingContactError() = %v, want nil when email set", derr)
	}

	bare := &models.User{}
	derr := missingContactError(bare)
	if derr == nil {
		t.Fatal("missingContactError() = nil, want error for user without email")
	}
	if derr.Code != CodeMissingContact {
		t.Errorf("Code = %q, want %q", derr.Code, CodeMissingContact)
	}
	if got := derr.Details["phone"]; got != "Not available" {
		t.Errorf("Details[phone] = %v, want fallback", got)
	}
	if got := derr.Details["name"]; got != "Customer" {
		t.Errorf("Details[name] = %v, want fallback", got)
	}

	known := &models.User{FirstName: "Lina", LastName: "Haddad", PhoneNumber: "+96170123456"}
	derr = missingContactError(known)
	if derr == nil {
		t.Fatal("missingContactError() = nil, want error for user without email")
	}
	if got := derr.Details["phone"]; got != "+96170123456" {
		t.Errorf("Details[phone] = %v, want real number", got)
	}
	if got := derr.Details["name"]; got != "Lina Haddad" {
		t.Errorf("Details[name] = %v, want full name", got)
	}
}
