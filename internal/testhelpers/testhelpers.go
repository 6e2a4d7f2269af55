// Package testhelpers provides reusable testing utilities for NetPulse.
//
// This package contains:
// - Assertion helpers
// - Temp file/dir helpers for policy-file tests
// - Data builders for events, alerts, assets and health samples
package testhelpers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ========================================
// Assertion Helpers
// ========================================

// AssertEqual checks that two comparable values are equal
func AssertEqual[T comparable](t *testing.T, expected, actual T, msg string) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertNoError fails the test immediately on an unexpected error
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// AssertError checks that an error occurred
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", msg)
	}
}

// AssertErrorIs checks that err wraps or equals the target error
func AssertErrorIs(t *testing.T, err, target error, msg string) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("%s: expected error %v, got %v", msg, target, err)
	}
}

// AssertTrue checks that a condition holds
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Errorf("%s: expected true, got false", msg)
	}
}

// AssertFalse checks that a condition does not hold
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Errorf("%s: expected false, got true", msg)
	}
}

// ========================================
// Time Assertions
// ========================================

// AssertTimeAfter checks that actual is after reference
func AssertTimeAfter(t *testing.T, actual, reference time.Time, msg string) {
	t.Helper()
	if !actual.After(reference) {
		t.Errorf("%s: expected %v to be after %v", msg, actual, reference)
	}
}

// AssertTimeWithin checks that actual is within tolerance of reference
func AssertTimeWithin(t *testing.T, actual, reference time.Time, tolerance time.Duration, msg string) {
	t.Helper()
	diff := actual.Sub(reference)
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		t.Errorf("%s: expected %v within %v of %v (diff: %v)", msg, actual, tolerance, reference, diff)
	}
}

// ========================================
// File Helpers
// ========================================

// TempTestDir creates a temporary directory and returns it with a cleanup
// function
func TempTestDir(t *testing.T, prefix string) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

// WriteTestFile writes content to a file in dir and returns its path
func WriteTestFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file %s: %v", path, err)
	}
	return path
}
