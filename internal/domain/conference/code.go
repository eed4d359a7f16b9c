package conference

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

/*
	Record codes
	------------
	- ABS-<year>-<4 digits> for abstracts, PHAR-<year>-<5 digits> for registrations
	- assigned once, before the first insert (BeforeCreate hooks below)
	- no uniqueness check here; callers retry on a unique-key violation
*/

const (
	AbstractCodePrefix     = "ABS"
	RegistrationCodePrefix = "PHAR"
)

// clock is swapped in tests.
var clock = time.Now

func newCode(prefix string, digits int, at time.Time) string {
	lo := 1
	for i := 1; i < digits; i++ {
		lo *= 10
	}
	return fmt.Sprintf("%s-%d-%d", prefix, at.Year(), lo+rand.Intn(9*lo))
}

// NewAbstractCode returns a fresh abstract code for the given instant.
func NewAbstractCode(at time.Time) string {
	return newCode(AbstractCodePrefix, 4, at)
}

// NewRegistrationCode returns a fresh registration code for the given instant.
func NewRegistrationCode(at time.Time) string {
	return newCode(RegistrationCodePrefix, 5, at)
}

// EnsureCode fills *code with gen(now) unless it already holds a value.
func EnsureCode(code *string, gen func(time.Time) string) {
	if strings.TrimSpace(*code) != "" {
		return
	}
	*code = gen(clock())
}
