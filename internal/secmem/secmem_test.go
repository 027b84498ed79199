package secmem

import (
	"errors"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	t.Parallel()
	s := New("hunter2")
	got, err := s.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("Value = %q, want %q", got, "hunter2")
	}
	if s.Len() != 7 {
		t.Errorf("Len = %d, want 7", s.Len())
	}
}

func TestClearZeroesBuffer(t *testing.T) {
	t.Parallel()
	s := New("topsecret")
	buf := s.buf
	s.Clear()

	for i, b := range buf {
		if b != 0 {
			t.Fatalf("buf[%d] = %d after Clear, want 0", i, b)
		}
	}
	if !s.Cleared() {
		t.Error("Cleared() = false after Clear")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", s.Len())
	}
	if _, err := s.Value(); !errors.Is(err, ErrCleared) {
		t.Errorf("Value after Clear = %v, want ErrCleared", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()
	s := New("x")
	s.Clear()
	s.Clear()
	if _, err := s.Value(); !errors.Is(err, ErrCleared) {
		t.Errorf("Value after double Clear = %v, want ErrCleared", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestWithSecretsClearsOnSuccess(t *testing.T) {
	t.Parallel()
	var captured map[string]*SecureString
	err := WithSecrets(map[string]string{"username": "a@b.com", "password": "pw"}, func(sec map[string]*SecureString) error {
		captured = sec
		u, err := sec["username"].Value()
		if err != nil {
			return err
		}
		if u != "a@b.com" {
			t.Errorf("username = %q", u)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithSecrets: %v", err)
	}
	for name, s := range captured {
		if !s.Cleared() {
			t.Errorf("%s not cleared after success", name)
		}
	}
}

func TestWithSecretsClearsOnError(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("boom")
	var captured *SecureString
	err := WithSecrets(map[string]string{"password": "pw"}, func(sec map[string]*SecureString) error {
		captured = sec["password"]
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if !captured.Cleared() {
		t.Error("password not cleared after error")
	}
}

func TestWithSecretsClearsOnPanic(t *testing.T) {
	t.Parallel()
	var captured *SecureString
	func() {
		defer func() { recover() }()
		WithSecrets(map[string]string{"password": "pw"}, func(sec map[string]*SecureString) error {
			captured = sec["password"]
			panic("mid-operation failure")
		})
	}()
	if !captured.Cleared() {
		t.Error("password not cleared after panic")
	}
}
