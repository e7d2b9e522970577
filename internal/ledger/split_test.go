package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name        string
		total       string
		memberCount int
		want        string
		wantErr     error
	}{
		{
			name:        "exact three way split",
			total:       "300",
			memberCount: 3,
			want:        "100",
		},
		{
			name:        "two way split with cents",
			total:       "100.50",
			memberCount: 2,
			want:        "50.25",
		},
		{
			name:        "uneven split rounds to cents",
			total:       "100",
			memberCount: 3,
			want:        "33.33",
		},
		{
			name:        "single member takes it all",
			total:       "42.42",
			memberCount: 1,
			want:        "42.42",
		},
		{
			name:        "zero members",
			total:       "100",
			memberCount: 0,
			wantErr:     ErrNoMembers,
		},
		{
			name:        "negative member count",
			total:       "100",
			memberCount: -2,
			wantErr:     ErrNoMembers,
		},
		{
			name:        "zero total",
			total:       "0",
			memberCount: 3,
			wantErr:     ErrValidation,
		},
		{
			name:        "negative total",
			total:       "-10",
			memberCount: 3,
			wantErr:     ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			got, err := EqualSplit(total, tt.memberCount)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("EqualSplit(%s, %d) error = %v, want %v", tt.total, tt.memberCount, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("EqualSplit(%s, %d) unexpected error: %v", tt.total, tt.memberCount, err)
			}
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("EqualSplit(%s, %d) = %s, want %s", tt.total, tt.memberCount, got, want)
			}
		})
	}
}

func TestEqualSplitSumWithinTolerance(t *testing.T) {
	epsilon := decimal.RequireFromString("0.05")

	cases := []struct {
		total       string
		memberCount int
	}{
		{"100", 3},
		{"99.99", 7},
		{"1", 3},
		{"1234.56", 11},
		{"0.03", 2},
	}

	for _, c := range cases {
		total := decimal.RequireFromString(c.total)
		share, err := EqualSplit(total, c.memberCount)
		if err != nil {
			t.Fatalf("EqualSplit(%s, %d) unexpected error: %v", c.total, c.memberCount, err)
		}
		sum := share.Mul(decimal.NewFromInt(int64(c.memberCount)))
		diff := sum.Sub(total).Abs()
		if diff.GreaterThan(epsilon) {
			t.Errorf("EqualSplit(%s, %d): shares sum to %s, off by %s (tolerance %s)",
				c.total, c.memberCount, sum, diff, epsilon)
		}
	}
}
