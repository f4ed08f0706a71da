package testutil

import (
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Epoch is the default start of a FakeClock.
var Epoch = time.Date(2021, time.March, 1, 9, 0, 0, 0, time.UTC)

// FakeClock is a manually driven clock, safe for concurrent use.
type FakeClock struct {
	mutex sync.RWMutex
	now   time.Time
}

func NewFakeClock(start ...time.Time) *FakeClock {
	now := Epoch
	if len(start) > 0 {
		now = start[0]
	}
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

func (c *FakeClock) Set(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = now
}

// HashPassword returns a cheap bcrypt hash for tests.
func HashPassword(t *testing.T, pwd string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	return string(hash)
}

// Fixtures
const (
	CardsCSV = "reference,title,description\n" +
		"R1,Mitochondria,\"Powerhouse of the cell, makes ATP\"\n" +
		"R2,Ribosome,Builds proteins\n" +
		"R3,Nucleus,\n"

	QuizCSV = "reference;question;A;B;C;correct;why\n" +
		"Q1;Capital of France?;Paris;Lyon;Nice;Paris;It is.\n" +
		"Q2;Pick any;yes;no;maybe;;\n" +
		"Q3;Even numbers?;1;2;4;B|C;2 and 4 are even.\n"

	NoChoicesCSV = "reference,question\nQ1,Nothing to pick\n"

	HeaderOnlyCSV = "reference,question,A,B\n"
)
