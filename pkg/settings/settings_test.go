package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newtron-network/netconsole/pkg/client"
	"github.com/newtron-network/netconsole/pkg/util"
)

func TestSettings_Defaults(t *testing.T) {
	s := &Settings{}

	if got := s.GetBackendURL(); got != client.DefaultBaseURL {
		t.Errorf("GetBackendURL() default = %q, want %q", got, client.DefaultBaseURL)
	}
	if got := s.GetAuditLog(); !strings.HasSuffix(got, filepath.Join(".netconsole", "audit.log")) {
		t.Errorf("GetAuditLog() default = %q", got)
	}
	if !strings.HasSuffix(DefaultSettingsPath(), filepath.Join(".netconsole", "settings.yaml")) {
		t.Errorf("DefaultSettingsPath() = %q", DefaultSettingsPath())
	}
}

func TestSettings_GetSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr error
	}{
		{KeyBackendURL, "http://10.0.0.1:3005", "http://10.0.0.1:3005", nil},
		{KeyAuditLog, "/var/log/netconsole.log", "/var/log/netconsole.log", nil},
		{KeyAuditMaxSize, "1048576", "1048576", nil},
		{KeyAuditMaxBackups, "5", "5", nil},
		{KeyAuditMaxBackups, "", "", nil},
		{KeyAuditMaxSize, "-1", "", util.ErrValidationFailed},
		{KeyAuditMaxBackups, "many", "", util.ErrValidationFailed},
		{"default_device", "eth0", "", util.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := &Settings{}
			err := s.Set(tt.key, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Set() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			got, err := s.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSettings_Overrides(t *testing.T) {
	s := &Settings{}
	_ = s.Set(KeyBackendURL, "http://router:3005")
	_ = s.Set(KeyAuditLog, "/tmp/a.log")
	if s.GetBackendURL() != "http://router:3005" {
		t.Errorf("GetBackendURL() = %q", s.GetBackendURL())
	}
	if s.GetAuditLog() != "/tmp/a.log" {
		t.Errorf("GetAuditLog() = %q", s.GetAuditLog())
	}
}

func TestSettings_Clear(t *testing.T) {
	s := &Settings{BackendURL: "http://x", AuditLog: "/a", AuditMaxSize: 10, AuditMaxBackups: 1}
	s.Clear()
	if *s != (Settings{}) {
		t.Errorf("Clear() left %+v", *s)
	}
}

func TestSettings_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.yaml")

	original := &Settings{BackendURL: "http://10.0.0.1:3005", AuditMaxBackups: 3}
	if err := original.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "backend_url: http://10.0.0.1:3005") {
		t.Errorf("file content = %q", data)
	}
	if strings.Contains(string(data), "audit_log") {
		t.Errorf("unset fields should be omitted: %q", data)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if *loaded != *original {
		t.Errorf("loaded = %+v, want %+v", *loaded, *original)
	}
}

func TestSettings_LoadMissing(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() on missing file should not error: %v", err)
	}
	if *s != (Settings{}) {
		t.Errorf("expected empty settings, got %+v", *s)
	}
}

func TestSettings_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("backend_url: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFrom(path)
	if !errors.Is(err, util.ErrInvalidConfig) {
		t.Errorf("LoadFrom() error = %v, want ErrInvalidConfig", err)
	}
}
