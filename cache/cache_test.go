package cache

import (
	"testing"
	"time"
)

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{
			name:   "absolute",
			policy: WithAbsoluteTTL(30 * time.Second),
		},
		{
			name:   "absolute and sliding",
			policy: WithAbsoluteAndSliding(30*time.Second, 15*time.Second),
		},
		{
			name:    "zero absolute duration",
			policy:  WithAbsoluteTTL(0),
			wantErr: true,
		},
		{
			name:    "negative absolute duration",
			policy:  WithAbsoluteTTL(-time.Second),
			wantErr: true,
		},
		{
			name:    "sliding kind without sliding window",
			policy:  Policy{Kind: AbsoluteSliding, Duration: 30 * time.Second},
			wantErr: true,
		},
		{
			name:    "absolute kind with stray sliding window",
			policy:  Policy{Kind: Absolute, Duration: 30 * time.Second, Sliding: 15 * time.Second},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			policy:  Policy{Kind: PolicyKind(42), Duration: time.Second},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestOrderKey(t *testing.T) {
	if got := OrderKey(42); got != "order_42" {
		t.Errorf("expected order_42, got %q", got)
	}
	if got := OrderKey(1); got != "order_1" {
		t.Errorf("expected order_1, got %q", got)
	}
}

// stubCache is a minimal Cache for exercising the typed Lookup helper.
type stubCache struct {
	values map[string]any
}

func (s *stubCache) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *stubCache) Set(key string, value any, _ Policy) {
	s.values[key] = value
}

func (s *stubCache) Remove(key string) {
	delete(s.values, key)
}

func TestLookup(t *testing.T) {
	c := &stubCache{values: map[string]any{
		"ints":  []int{1, 2, 3},
		"wrong": "not a slice",
	}}

	got, ok := Lookup[[]int](c, "ints")
	if !ok {
		t.Fatal("expected hit for matching type")
	}
	if len(got) != 3 {
		t.Errorf("expected 3 elements, got %d", len(got))
	}

	if _, ok := Lookup[[]int](c, "absent"); ok {
		t.Error("expected miss for absent key")
	}

	// A type mismatch behaves as a miss, not a panic.
	if _, ok := Lookup[[]int](c, "wrong"); ok {
		t.Error("expected miss for mismatched type")
	}
}
