package workflow

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"testing"

	"conference-app/database"
	"conference-app/internal/infra/mail"
	"conference-app/internal/infra/payment"
	"conference-app/internal/infra/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "rzp_test_secret"

type fakeFiles struct {
	mu      sync.Mutex
	stored  []string
	failPut bool
}

func (f *fakeFiles) Store(_ context.Context, data []byte, mimeType, folder, filename string) (*storage.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return nil, errors.New("bucket unavailable")
	}
	key := folder + "/" + filename
	f.stored = append(f.stored, key)
	return &storage.File{URL: "https://files.test/" + key, Path: key}, nil
}

func (f *fakeFiles) ScanCodeImage(ctx context.Context, text string) (string, error) {
	file, err := f.Store(ctx, []byte(text), "image/png", "qrcodes", text+".png")
	if err != nil {
		return "", err
	}
	return file.URL, nil
}

// fakeGateway creates orders locally and checks signatures like Razorpay does.
type fakeGateway struct {
	*payment.Razorpay
	mu      sync.Mutex
	orders  int
	failNew bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{Razorpay: payment.NewRazorpay("rzp_test_key", testSecret)}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount decimal.Decimal, currency, receipt string, _ map[string]string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failNew {
		return nil, errors.New("provider down")
	}
	g.orders++
	return &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.orders),
		Amount:   amount,
		Currency: currency,
		KeyID:    "rzp_test_key",
	}, nil
}

func (g *fakeGateway) orderCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.orders
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent map[string][]string
	fail error
}

func (n *fakeNotifier) record(kind, to string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = map[string][]string{}
	}
	if n.fail != nil {
		return n.fail
	}
	n.sent[kind] = append(n.sent[kind], to)
	return nil
}

func (n *fakeNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent[kind])
}

func (n *fakeNotifier) RegistrationConfirmation(_ context.Context, m mail.RegistrationMail) error {
	return n.record("registration", m.Email)
}

func (n *fakeNotifier) AbstractSubmitted(_ context.Context, m mail.AbstractMail) error {
	return n.record("abstract_submitted", m.Email)
}

func (n *fakeNotifier) AbstractReviewed(_ context.Context, m mail.ReviewMail) error {
	return n.record("abstract_reviewed", m.Email)
}

func (n *fakeNotifier) PaymentConfirmation(_ context.Context, m mail.PaymentMail) error {
	return n.record("payment_confirmation", m.Email)
}

func (n *fakeNotifier) PaymentReminder(_ context.Context, m mail.ReminderMail) error {
	return n.record("payment_reminder", m.Email)
}

type memDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *memDeduper) FirstSeen(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

func (d *memDeduper) Forget(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	svc      *Service
	files    *fakeFiles
	gateway  *fakeGateway
	notifier *fakeNotifier
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite pool: %v", err)
	}
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		db:       newTestDB(t),
		files:    &fakeFiles{},
		gateway:  newFakeGateway(),
		notifier: &fakeNotifier{},
	}
	env.svc = New(Deps{
		DB:       env.db,
		Files:    env.files,
		Gateway:  env.gateway,
		Notifier: env.notifier,
		Logger:   zerolog.Nop(),
		AppURL:   "https://conf.test",
	})
	return env
}

func registrationInput(email, category string) RegistrationInput {
	return RegistrationInput{
		Salutation:       "Dr.",
		FullName:         "Asha Rao",
		Email:            email,
		Phone:            "+91 98450 00000",
		DateOfBirth:      "1990-04-12",
		Affiliation:      "Manipal College of Pharmaceutical Sciences",
		Designation:      "Assistant Professor",
		Institute:        "MAHE",
		Address:          "Madhav Nagar",
		City:             "Manipal",
		State:            "Karnataka",
		Country:          "India",
		PostalCode:       "576104",
		RegistrationType: category,
	}
}

func abstractInput(email string) AbstractInput {
	return AbstractInput{
		Name:             "Asha Rao",
		Email:            email,
		Affiliation:      "MCOPS",
		Designation:      "PhD Scholar",
		Title:            "Nanocarriers for targeted delivery",
		Subject:          "Pharmaceutics",
		ArticleType:      "Research Paper",
		PresentationType: "Oral",
		CoAuthors:        `[{"name":"R. Kumar","email":"rk@example.org","affiliation":"MCOPS"}]`,
	}
}

func pdfUpload() *Upload {
	return &Upload{
		Data:        []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n"),
		Filename:    "abstract.pdf",
		ContentType: "application/pdf",
	}
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func mustRegister(t *testing.T, env *testEnv, email, category string) *RegistrationResult {
	t.Helper()
	res, err := env.svc.SubmitRegistration(context.Background(), registrationInput(email, category))
	if err != nil {
		t.Fatalf("SubmitRegistration(%s, %s): %v", email, category, err)
	}
	return res
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %d, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("error kind = %d, want %d (%v)", got, want, err)
	}
}

func itoa(v uint) string {
	return fmt.Sprint(v)
}
