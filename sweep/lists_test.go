package sweep

import (
	"errors"
	"reflect"
	"testing"
)

func TestLinear(t *testing.T) {
	got, err := ParseLinear("200:2000:200")
	if err != nil {
		t.Fatalf("ParseLinear failed: %v", err)
	}

	want := []int{200, 400, 600, 800, 1000, 1200, 1400, 1600, 1800}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("linear = %v, want %v", got, want)
	}
}

func TestPow2(t *testing.T) {
	got, err := ParsePow2("7:14")
	if err != nil {
		t.Fatalf("ParsePow2 failed: %v", err)
	}

	want := []int{128, 256, 512, 1024, 2048, 4096, 8192}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pow2 = %v, want %v", got, want)
	}
}

func TestLogSpace(t *testing.T) {
	tests := []struct {
		spec string
		want []int
	}{
		{"100:10000:3", []int{100, 1000, 10000}},
		{"10:1000:5", []int{10, 32, 100, 316, 1000}},
		{"50:500:1", []int{50}},
	}

	for _, tt := range tests {
		got, err := ParseLogSpace(tt.spec)
		if err != nil {
			t.Fatalf("ParseLogSpace(%q) failed: %v", tt.spec, err)
		}

		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseLogSpace(%q) = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestGeneratorsRejectBadSpecs(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) ([]int, error)
		spec  string
	}{
		{"linear zero step", ParseLinear, "0:10:0"},
		{"linear empty", ParseLinear, "10:10:1"},
		{"linear arity", ParseLinear, "1:2"},
		{"pow2 reversed", ParsePow2, "5:3"},
		{"pow2 overflow", ParsePow2, "1:80"},
		{"logspace zero start", ParseLogSpace, "0:10:3"},
		{"logspace no points", ParseLogSpace, "1:10:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parse(tt.spec)
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("err = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestParseIntsNotANumber(t *testing.T) {
	if _, err := ParseLinear("a:10:1"); err == nil {
		t.Error("expected error for non-numeric spec")
	}
}
