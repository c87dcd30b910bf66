package models

import "fmt"

// Stem is one of the ten heavenly stems, zero-indexed from Jia.
type Stem int

const (
	Jia Stem = iota
	Yi
	Bing
	Ding
	WuStem
	Ji
	Geng
	Xin
	Ren
	Gui
)

var stemNames = [10]string{"Jia", "Yi", "Bing", "Ding", "Wu", "Ji", "Geng", "Xin", "Ren", "Gui"}
var stemCN = [10]rune{'甲', '乙', '丙', '丁', '戊', '己', '庚', '辛', '壬', '癸'}

func (s Stem) String() string { return stemNames[((int(s)%10)+10)%10] }

// CN returns the traditional character for the stem.
func (s Stem) CN() rune { return stemCN[((int(s)%10)+10)%10] }

// Branch is one of the twelve earthly branches, zero-indexed from Zi.
type Branch int

const (
	Zi Branch = iota
	Chou
	Yin
	Mao
	Chen
	Si
	Wu
	Wei
	Shen
	You
	Xu
	Hai
)

var branchNames = [12]string{"Zi", "Chou", "Yin", "Mao", "Chen", "Si", "Wu", "Wei", "Shen", "You", "Xu", "Hai"}
var branchCN = [12]rune{'子', '丑', '寅', '卯', '辰', '巳', '午', '未', '申', '酉', '戌', '亥'}

func (b Branch) String() string { return branchNames[((int(b)%12)+12)%12] }

// CN returns the traditional character for the branch.
func (b Branch) CN() rune { return branchCN[((int(b)%12)+12)%12] }

// Pillar is a stem/branch pair identifying a position in the sexagenary cycle.
// Only the 60 combinations where stem and branch indices are congruent mod 2
// occur in the cycle.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// PillarFromIndex returns the pillar at position n of the sexagenary cycle,
// where index 0 is JiaZi. Negative indices wrap.
func PillarFromIndex(n int) Pillar {
	n = ((n % 60) + 60) % 60
	return Pillar{Stem: Stem(n % 10), Branch: Branch(n % 12)}
}

// Index returns the 0-based position of the pillar in the sexagenary cycle,
// or -1 if the stem/branch pairing never occurs in the cycle.
func (p Pillar) Index() int {
	s, b := int(p.Stem), int(p.Branch)
	if s%2 != b%2 {
		return -1
	}
	// CRT over (mod 10, mod 12): step by 12 from the branch residue until the
	// stem residue matches. At most 5 steps.
	for n := b; n < 60; n += 12 {
		if n%10 == s {
			return n
		}
	}
	return -1
}

func (p Pillar) String() string { return fmt.Sprintf("%c%c", p.Stem.CN(), p.Branch.CN()) }

// FourPillars is the year/month/day/hour pillar tuple for one moment.
type FourPillars struct {
	Year  Pillar
	Month Pillar
	Day   Pillar
	Hour  Pillar
}

func (fp FourPillars) String() string {
	return fmt.Sprintf("%s %s %s %s", fp.Year, fp.Month, fp.Day, fp.Hour)
}

// Pillars returns the four pillars in year, month, day, hour order.
func (fp FourPillars) Pillars() [4]Pillar {
	return [4]Pillar{fp.Year, fp.Month, fp.Day, fp.Hour}
}
