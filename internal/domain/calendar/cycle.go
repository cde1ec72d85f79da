package calendar

import (
	"fmt"
	"strings"
)

// Stem is one of the ten Heavenly Stems, 0 (jia) through 9 (gui).
type Stem int

// Branch is one of the twelve Earthly Branches, 0 (zi) through 11 (hai).
type Branch int

// Cycle sizes.
const (
	StemCount   = 10
	BranchCount = 12
	CycleLength = 60
)

var stemNames = [StemCount]string{"jia", "yi", "bing", "ding", "wu", "ji", "geng", "xin", "ren", "gui"}

var branchNames = [BranchCount]string{"zi", "chou", "yin", "mao", "chen", "si", "wu", "wei", "shen", "you", "xu", "hai"}

// Valid reports whether s is inside the stem range.
func (s Stem) Valid() bool { return s >= 0 && s < StemCount }

// Yang reports the polarity of the stem; even stems are yang.
func (s Stem) Yang() bool { return s%2 == 0 }

func (s Stem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stem(%d)", int(s))
	}
	return stemNames[s]
}

// MarshalText encodes the stem by its pinyin name.
func (s Stem) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stem %d", int(s))
	}
	return []byte(stemNames[s]), nil
}

// UnmarshalText decodes a pinyin stem name.
func (s *Stem) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, candidate := range stemNames {
		if candidate == name {
			*s = Stem(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stem %q", name)
}

// Valid reports whether b is inside the branch range.
func (b Branch) Valid() bool { return b >= 0 && b < BranchCount }

// Yang reports the polarity of the branch; even branches are yang.
func (b Branch) Yang() bool { return b%2 == 0 }

// Offset moves n positions around the branch ring, wrapping in both directions.
func (b Branch) Offset(n int) Branch {
	return Branch(mod(int(b)+n, BranchCount))
}

func (b Branch) String() string {
	if !b.Valid() {
		return fmt.Sprintf("branch(%d)", int(b))
	}
	return branchNames[b]
}

// MarshalText encodes the branch by its pinyin name.
func (b Branch) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid branch %d", int(b))
	}
	return []byte(branchNames[b]), nil
}

// UnmarshalText decodes a pinyin branch name.
func (b *Branch) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, candidate := range branchNames {
		if candidate == name {
			*b = Branch(i)
			return nil
		}
	}
	return fmt.Errorf("unknown branch %q", name)
}

// StemBranch is a single term of the sexagenary cycle.
type StemBranch struct {
	Stem   Stem   `json:"stem"`
	Branch Branch `json:"branch"`
}

func (p StemBranch) String() string {
	return p.Stem.String() + "-" + p.Branch.String()
}

// FromCycle returns the pair at position i (taken modulo 60).
func FromCycle(i int) StemBranch {
	i = mod(i, CycleLength)
	return StemBranch{Stem: Stem(i % StemCount), Branch: Branch(i % BranchCount)}
}

// CycleIndex solves the position 0..59 of a stem/branch pair. Pairs of mixed
// polarity never occur in the cycle and are rejected.
func CycleIndex(stem Stem, branch Branch) (int, error) {
	if !stem.Valid() || !branch.Valid() {
		return 0, fmt.Errorf("stem %d or branch %d outside cycle", int(stem), int(branch))
	}
	if stem.Yang() != branch.Yang() {
		return 0, fmt.Errorf("%s and %s never pair in the sexagenary cycle", stem, branch)
	}
	// Chinese remainder over 10 and 12: i = stem + 10k with i ≡ branch (mod 12).
	for k := 0; k < 6; k++ {
		i := int(stem) + StemCount*k
		if i%BranchCount == int(branch) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no cycle position for %s-%s", stem, branch)
}

// Cycle returns the pair's cycle position.
func (p StemBranch) Cycle() (int, error) {
	return CycleIndex(p.Stem, p.Branch)
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
