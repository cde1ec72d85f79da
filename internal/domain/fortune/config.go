package fortune

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bands are the advice thresholds: scores below Caution are "caution",
// scores above Favorable are "favorable".
type Bands struct {
	Caution   int
	Favorable int
}

// Config holds the synthesizer weights.
type Config struct {
	Signals map[Domain]map[Signal]decimal.Decimal
	Overall map[Domain]decimal.Decimal
	Bands   Bands
}

// DefaultConfig returns the stock weighting.
func DefaultConfig() Config {
	d := decimal.RequireFromString
	return Config{
		Signals: map[Domain]map[Signal]decimal.Decimal{
			Career: {SignalBalance: d("0.1"), SignalStrength: d("0.2"), SignalGods: d("0.4"), SignalPalace: d("0.3")},
			Wealth: {SignalBalance: d("0.1"), SignalStrength: d("0.2"), SignalGods: d("0.4"), SignalPalace: d("0.3")},
			Love:   {SignalBalance: d("0.2"), SignalStrength: d("0.1"), SignalGods: d("0.3"), SignalPalace: d("0.4")},
			Health: {SignalBalance: d("0.5"), SignalStrength: d("0.3"), SignalGods: d("0"), SignalPalace: d("0.2")},
		},
		Overall: map[Domain]decimal.Decimal{
			Career: d("0.3"), Wealth: d("0.25"), Love: d("0.2"), Health: d("0.25"),
		},
		Bands: Bands{Caution: 40, Favorable: 70},
	}
}

// ParseConfig builds a Config from decimal strings keyed by domain and signal
// name, as they appear in configuration files.
func ParseConfig(signals map[string]map[string]string, overall map[string]string, bands Bands) (Config, error) {
	cfg := Config{
		Signals: make(map[Domain]map[Signal]decimal.Decimal, len(signals)),
		Overall: make(map[Domain]decimal.Decimal, len(overall)),
		Bands:   bands,
	}
	for domain, weights := range signals {
		row := make(map[Signal]decimal.Decimal, len(weights))
		for signal, raw := range weights {
			w, err := decimal.NewFromString(raw)
			if err != nil {
				return Config{}, fmt.Errorf("weight %s.%s: %w", domain, signal, err)
			}
			row[Signal(signal)] = w
		}
		cfg.Signals[Domain(domain)] = row
	}
	for domain, raw := range overall {
		w, err := decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("overall weight %s: %w", domain, err)
		}
		cfg.Overall[Domain(domain)] = w
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every domain is weighted, that weights are
// non-negative and that each weight set sums to exactly one.
func (c Config) Validate() error {
	one := decimal.NewFromInt(1)
	known := make(map[Signal]bool, len(Signals))
	for _, s := range Signals {
		known[s] = true
	}
	for _, domain := range Domains {
		row, ok := c.Signals[domain]
		if !ok {
			return fmt.Errorf("no signal weights for %s", domain)
		}
		sum := decimal.Zero
		for signal, w := range row {
			if !known[signal] {
				return fmt.Errorf("unknown signal %q for %s", signal, domain)
			}
			if w.IsNegative() {
				return fmt.Errorf("negative weight %s.%s", domain, signal)
			}
			sum = sum.Add(w)
		}
		if !sum.Equal(one) {
			return fmt.Errorf("signal weights for %s sum to %s, want 1", domain, sum)
		}
		w, ok := c.Overall[domain]
		if !ok {
			return fmt.Errorf("no overall weight for %s", domain)
		}
		if w.IsNegative() {
			return fmt.Errorf("negative overall weight for %s", domain)
		}
	}
	if len(c.Signals) != len(Domains) || len(c.Overall) != len(Domains) {
		return fmt.Errorf("weights name unknown domains")
	}
	sum := decimal.Zero
	for _, w := range c.Overall {
		sum = sum.Add(w)
	}
	if !sum.Equal(one) {
		return fmt.Errorf("overall weights sum to %s, want 1", sum)
	}
	if c.Bands.Caution < 0 || c.Bands.Favorable > 100 || c.Bands.Caution > c.Bands.Favorable {
		return fmt.Errorf("advice bands %d/%d out of order", c.Bands.Caution, c.Bands.Favorable)
	}
	return nil
}

// Tag maps a score onto its advice band.
func (b Bands) Tag(score int) AdviceTag {
	switch {
	case score < b.Caution:
		return Caution
	case score > b.Favorable:
		return Favorable
	default:
		return Steady
	}
}
