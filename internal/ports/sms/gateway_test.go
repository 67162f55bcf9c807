package sms

import (
	"context"
	"testing"
)

type scriptedSender struct {
	calls []string
	fail  map[string]string // phone => error
}

func (s *scriptedSender) Send(ctx context.Context, to, message string) Result {
	s.calls = append(s.calls, to)
	if errMsg, ok := s.fail[to]; ok {
		return Result{Phone: to, Success: false, Error: errMsg}
	}
	return Result{Phone: to, Success: true}
}

func TestSequentialBulk_PreservesOrder_OneResultPerInput(t *testing.T) {
	sender := &scriptedSender{}
	to := []string{"+250700000001", "+250700000002", "+250700000003"}

	results := SequentialBulk(context.Background(), sender, to, "hola", 0)

	if len(results) != len(to) {
		t.Fatalf("expected %d results, got %d", len(to), len(results))
	}
	for i, r := range results {
		if r.Phone != to[i] {
			t.Fatalf("result %d out of order: got %s want %s", i, r.Phone, to[i])
		}
	}
	for i, called := range sender.calls {
		if called != to[i] {
			t.Fatalf("send order broken at %d: got %s want %s", i, called, to[i])
		}
	}
}

func TestSequentialBulk_FailureDoesNotAbortRest(t *testing.T) {
	sender := &scriptedSender{
		fail: map[string]string{"+250700000002": "UserInBlacklist"},
	}
	to := []string{"+250700000001", "+250700000002", "+250700000003"}

	results := SequentialBulk(context.Background(), sender, to, "hola", 0)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Success != true || results[2].Success != true {
		t.Fatalf("expected surrounding sends to succeed: %#v", results)
	}
	if results[1].Success || results[1].Error != "UserInBlacklist" {
		t.Fatalf("expected middle send to fail with provider error, got %#v", results[1])
	}
}

func TestSequentialBulk_Empty(t *testing.T) {
	sender := &scriptedSender{}
	results := SequentialBulk(context.Background(), sender, nil, "hola", 0)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
	if len(sender.calls) != 0 {
		t.Fatalf("expected no sends, got %d", len(sender.calls))
	}
}
