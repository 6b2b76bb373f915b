package main

import "testing"

func TestDecodeBinaryInput(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
		want ClientInput
		ok   bool
	}{
		{"origin", []byte{0x01, 0, 0, 0, 0, 0}, ClientInput{}, true},
		{"position", []byte{0x01, 0x01, 0x2C, 0x02, 0x58, 0}, ClientInput{X: 300, Y: 600}, true},
		{"negative", []byte{0x01, 0xFF, 0xF6, 0xFF, 0xFF, 0}, ClientInput{X: -10, Y: -1}, true},
		{"brake", []byte{0x01, 0, 0, 0, 0, InputBrake}, ClientInput{Brake: true}, true},
		{"retire", []byte{0x01, 0, 0, 0, 0, InputBrake | InputRetire}, ClientInput{Brake: true, Retire: true}, true},
		{"short", []byte{0x01, 0, 0, 0, 0}, ClientInput{}, false},
		{"opcode", []byte{0x02, 0, 0, 0, 0, 0}, ClientInput{}, false},
		{"empty", nil, ClientInput{}, false},
	}
	for _, tt := range tests {
		got, ok := DecodeBinaryInput(tt.msg)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s: got %+v ok=%v, want %+v ok=%v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(4), GenerateID(4)
	if len(a) != 8 || a == b {
		t.Errorf("unexpected ids %q %q", a, b)
	}
}
