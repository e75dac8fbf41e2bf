package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"paydesk/internal/platform/config"
)

func TestNewDisabledIsNoop(t *testing.T) {
	mailer := New(config.Defaults())
	if _, ok := mailer.(noopMailer); !ok {
		t.Fatalf("expected noop mailer, got %T", mailer)
	}
	if err := mailer.Send(context.Background(), "a@b.c", "d@e.f", "hi", "body"); err != nil {
		t.Fatalf("noop send: %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	sent := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	msg := string(buildMessage("no-reply@paydesk.local", "ana@example.com", "Join\r\nBcc: evil@example.com", "line one\nline two", sent))

	if strings.Contains(msg, "\r\nBcc:") {
		t.Fatalf("expected header injection to be neutralised:\n%s", msg)
	}
	if !strings.Contains(msg, "Subject: Join  Bcc: evil@example.com\r\n") {
		t.Fatalf("unexpected subject line:\n%s", msg)
	}
	if !strings.Contains(msg, "Date: Mon, 05 Jan 2026 08:00:00 +0000\r\n") {
		t.Fatalf("unexpected date line:\n%s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nline one\r\nline two") {
		t.Fatalf("expected CRLF body:\n%q", msg)
	}
}
