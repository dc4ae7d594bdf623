package classify

import "testing"

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Severity
	}{
		{"explicit ERROR", "2023-09-01 12:00:00 ERROR something broke", SeverityError},
		{"explicit err lowercase", "err: disk full", SeverityError},
		{"fatal", "FATAL: out of memory", SeverityError},
		{"exception", "unhandled Exception in thread main", SeverityError},
		{"alert", "kernel: ALERT temperature high", SeverityError},
		{"warn", "2023-09-01 12:00:00 WARN disk at 90%", SeverityWarning},
		{"warning", "Warning: certificate expires soon", SeverityWarning},
		{"info", "2023-09-01 12:00:00 INFO server listening", SeverityInfo},
		{"notice maps to info", "notice: config reloaded", SeverityInfo},
		{"debug", "DEBUG query took 3ms", SeverityDebug},
		{"trace", "TRACE entering handler", SeverityDebug},
		{"contextual failed", "connection failed after 3 attempts", SeverityError},
		{"contextual cannot", "cannot open /var/lib/data", SeverityError},
		{"contextual timeout", "request timeout from upstream", SeverityError},
		{"contextual slow", "slow query detected", SeverityWarning},
		{"contextual deprecated", "this option is deprecated", SeverityWarning},
		{"contextual started", "worker started on port 8080", SeverityInfo},
		{"contextual success", "backup success", SeverityInfo},
		{"unclassifiable", "lorem ipsum dolor sit amet", SeverityUnknown},
		{"explicit beats contextual", "ERROR backup completed", SeverityError},
		{"word boundary required", "errorsome text without token", SeverityUnknown},
		{"no substring match inside words", "the informant arrived", SeverityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySeverity(tt.line); got != tt.want {
				t.Errorf("ClassifySeverity(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		level Severity
		want  string
	}{
		{SeverityError, "ERROR"},
		{SeverityWarning, "WARNING"},
		{SeverityInfo, "INFO"},
		{SeverityDebug, "DEBUG"},
		{SeverityNotice, "NOTICE"},
		{SeverityUnknown, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestTrimSeverityPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ERROR Failed to connect: timeout", "Failed to connect: timeout"},
		{"[WARN] disk almost full", "disk almost full"},
		{"INFO: server started", "server started"},
		{"no severity here", "no severity here"},
		{"  debug  trailing spaces kept", "trailing spaces kept"},
	}

	for _, tt := range tests {
		if got := TrimSeverityPrefix(tt.in); got != tt.want {
			t.Errorf("TrimSeverityPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
