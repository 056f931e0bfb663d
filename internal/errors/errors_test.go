package errors

import (
	stderrors "errors"
	"testing"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := IngestionError("failed to parse CSV")
	wrapped := Wrap(base, "upload handling failed")

	if GetCode(wrapped) != CodeIngestionError {
		t.Errorf("code = %q, want %q", GetCode(wrapped), CodeIngestionError)
	}
	if !stderrors.Is(wrapped, base) {
		t.Error("wrapped error lost its cause chain")
	}
}

func TestWrap_ForeignErrorGetsInternalCode(t *testing.T) {
	wrapped := Wrap(stderrors.New("disk full"), "write failed")
	if GetCode(wrapped) != CodeInternalError {
		t.Errorf("code = %q, want %q", GetCode(wrapped), CodeInternalError)
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("wrapping nil must stay nil")
	}
}

func TestGetCode_ForeignError(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "UNKNOWN" {
		t.Errorf("code = %q, want UNKNOWN", got)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		err   error
		fatal bool
	}{
		{IngestionError("bad file"), true},
		{EmptyDataset("no rows"), true},
		{PlotGeneration("render failed"), false},
		{AIUnavailable("timeout"), false},
		{InvalidInput("bad field"), false},
		{stderrors.New("misc"), false},
	}
	for _, c := range cases {
		if got := IsFatal(c.err); got != c.fatal {
			t.Errorf("IsFatal(%v) = %t, want %t", c.err, got, c.fatal)
		}
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(EmptyDataset("no rows"), "while parsing %s", "data.csv")
	if GetCode(err) != CodeEmptyDataset {
		t.Errorf("code = %q, want %q", GetCode(err), CodeEmptyDataset)
	}
	want := "while parsing data.csv: no rows"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}
