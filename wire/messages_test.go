package wire

import "testing"

func TestLoginPINPacksWithinBounds(t *testing.T) {
	out := LoginPIN.PackRequest(map[string]any{
		"permissions": uint64(0x07),
		"pin":         []byte("123456"),
		"method":      uint64(0x03),
	})
	body := out[1+len(LoginPIN.MsgID):]
	if len(body) != len(LoginPIN.Body) {
		t.Fatalf("body length = %d, want %d", len(body), len(LoginPIN.Body))
	}
	if body[0] != 0x07 {
		t.Errorf("permissions = %#x, want 0x07", body[0])
	}
	if string(body[1:7]) != "123456" {
		t.Errorf("pin = %q, want 123456", body[1:7])
	}
	if body[11] != 0x03 {
		t.Errorf("method = %#x, want 0x03", body[11])
	}
}

func TestLoginAccountPacksRealisticCredentialsWithoutPanicking(t *testing.T) {
	username := "installer.engineer"    // 18 chars
	password := "S0me-Realistic-Pass!!" // 21 chars, well past the old 12-char panic threshold

	out := LoginAccount.PackRequest(map[string]any{
		"permissions": uint64(0x07),
		"username":    []byte(username),
		"password":    []byte(password),
		"method":      uint64(0x03),
	})

	body := out[1+len(LoginAccount.MsgID):]
	if len(body) != 66 {
		t.Fatalf("body length = %d, want 66", len(body))
	}
	if body[0] != 0x07 {
		t.Errorf("permissions = %#x, want 0x07", body[0])
	}
	if got := string(body[1 : 1+len(username)]); got != username {
		t.Errorf("username = %q, want %q", got, username)
	}
	if got := string(body[33 : 33+len(password)]); got != password {
		t.Errorf("password = %q, want %q", got, password)
	}
	if body[65] != 0x03 {
		t.Errorf("method = %#x, want 0x03", body[65])
	}
}

func TestLoginAccountMaxLengthCredentialsFitExactly(t *testing.T) {
	full32 := "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345" // exactly 32 chars
	if len(full32) != 32 {
		t.Fatalf("test fixture is %d chars, want 32", len(full32))
	}

	out := LoginAccount.PackRequest(map[string]any{
		"username": []byte(full32),
		"password": []byte(full32),
	})
	body := out[1+len(LoginAccount.MsgID):]
	if got := string(body[1:33]); got != full32 {
		t.Errorf("username = %q, want %q", got, full32)
	}
	if got := string(body[33:65]); got != full32 {
		t.Errorf("password = %q, want %q", got, full32)
	}
}
