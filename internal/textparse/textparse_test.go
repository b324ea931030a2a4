package textparse

import "testing"

func TestParseLabeledLines(t *testing.T) {
	got := Parse("Customer: John Doe\nAddress: 123 Main Street, Colombo\nWhatsApp: 0771234567")
	want := Parsed{
		Name:      "John Doe",
		Address:   "123 Main Street, Colombo",
		Contact01: "0771234567",
	}
	if got != want {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestParseUnlabeledHeuristics(t *testing.T) {
	got := Parse("Jane Smith\n45 Lake Road, Kandy\n0711112222")
	want := Parsed{
		Name:      "Jane Smith",
		Address:   "45 Lake Road, Kandy",
		Contact01: "0711112222",
	}
	if got != want {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestParseSecondContactLabel(t *testing.T) {
	got := Parse("Contact: 0771234567\nContact 2: 0719998888")
	if got.Contact01 != "0771234567" {
		t.Errorf("Contact01 = %q", got.Contact01)
	}
	if got.Contact02 != "0719998888" {
		t.Errorf("Contact02 = %q", got.Contact02)
	}
}

func TestParseFillsSecondContactFromUnlabeledLines(t *testing.T) {
	got := Parse("077-123 4567\n071 111 2222")
	if got.Contact01 != "0771234567" {
		t.Errorf("Contact01 = %q", got.Contact01)
	}
	if got.Contact02 != "0711112222" {
		t.Errorf("Contact02 = %q", got.Contact02)
	}
}

func TestParseTruncatesLongDigitRuns(t *testing.T) {
	// Only the first 10 digits of the stripped line are kept.
	got := Parse("0771234567890")
	if got.Contact01 != "0771234567" {
		t.Errorf("Contact01 = %q", got.Contact01)
	}
}

func TestParseIgnoresShortOrForeignNumbers(t *testing.T) {
	// Digits not starting with 0, or fewer than 10 of them, are not
	// treated as contacts; a line with digits is never a name.
	got := Parse("771234567\n12345")
	if !got.Empty() {
		t.Errorf("expected empty parse, got %+v", got)
	}
}

func TestParseLabelWins(t *testing.T) {
	// A labeled line is never reinterpreted by the fallback rules, and a
	// later labeled value overwrites an earlier one.
	got := Parse("Name: 45 Lake Road, Kandy\nName: Real Name")
	if got.Name != "Real Name" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Address != "" {
		t.Errorf("Address = %q, want empty", got.Address)
	}
}

func TestParseBlankLabelClaimsLine(t *testing.T) {
	got := Parse("Name:")
	if !got.Empty() {
		t.Errorf("expected empty parse, got %+v", got)
	}
}

func TestParseNothing(t *testing.T) {
	if !Parse("").Empty() {
		t.Error("empty input should parse to nothing")
	}
	if !Parse("   \n\n  ").Empty() {
		t.Error("whitespace input should parse to nothing")
	}
}

func TestParseNoDigitLineOnlyFirstBecomesName(t *testing.T) {
	got := Parse("First Person\nSecond Person")
	if got.Name != "First Person" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Address != "" || got.Contact01 != "" {
		t.Errorf("unexpected extra fields: %+v", got)
	}
}
