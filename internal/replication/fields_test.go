package replication

import (
	"errors"
	"strings"
	"testing"

	"reverbkit/internal/services"
)

func TestReplicateFields(t *testing.T) {
	input := "utt1 spk1\n;; comment line\n  utt2   spk2  \n\n"
	got, err := ReplicateFields(strings.NewReader(input), 2, "rvb", []int{0, 1})
	if err != nil {
		t.Fatalf("ReplicateFields returned error: %v", err)
	}
	want := "rvb0_utt1 rvb0_spk1\n;; comment line\nrvb0_utt2 rvb0_spk2\n\n" +
		"rvb1_utt1 rvb1_spk1\n;; comment line\nrvb1_utt2 rvb1_spk2\n\n"
	if string(got) != want {
		t.Fatalf("unexpected output:\ngot  %q\nwant %q", got, want)
	}
}

func TestReplicateFieldsKeepsOtherColumns(t *testing.T) {
	got, err := ReplicateFields(strings.NewReader("utt1 HELLO   WORLD\n"), 1, "", []int{0})
	if err != nil {
		t.Fatalf("ReplicateFields returned error: %v", err)
	}
	if string(got) != "utt1 HELLO WORLD\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestReplicateFieldsShortLine(t *testing.T) {
	_, err := ReplicateFields(strings.NewReader("seg1\n"), 1, "rvb", []int{0, 1})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSpeakerToUtterances(t *testing.T) {
	input := "rvb0_a rvb0_s2\nrvb0_b rvb0_s1\nrvb0_c rvb0_s2\n"
	got, err := SpeakerToUtterances(strings.NewReader(input))
	if err != nil {
		t.Fatalf("SpeakerToUtterances returned error: %v", err)
	}
	want := "rvb0_s2 rvb0_a rvb0_c\nrvb0_s1 rvb0_b\n"
	if string(got) != want {
		t.Fatalf("unexpected spk2utt:\ngot  %q\nwant %q", got, want)
	}
}

func TestSpeakerToUtterancesRejectsMalformedLine(t *testing.T) {
	if _, err := SpeakerToUtterances(strings.NewReader("utt1\n")); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
