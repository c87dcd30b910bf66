package elements

import "GFQuant/internal/domain/models"

// Static correspondence tables. Loaded once; never mutated.

var stemElements = [10]models.Element{
	models.Wood, models.Wood, // Jia Yi
	models.Fire, models.Fire, // Bing Ding
	models.Earth, models.Earth, // Wu Ji
	models.Metal, models.Metal, // Geng Xin
	models.Water, models.Water, // Ren Gui
}

var branchElements = [12]models.Element{
	models.Water, // Zi
	models.Earth, // Chou
	models.Wood,  // Yin
	models.Wood,  // Mao
	models.Earth, // Chen
	models.Fire,  // Si
	models.Fire,  // Wu
	models.Earth, // Wei
	models.Metal, // Shen
	models.Metal, // You
	models.Earth, // Xu
	models.Water, // Hai
}

// HiddenStem is a secondary stem carried by a branch, with its fractional
// weight. Weights per branch always sum to 0.5 so the scored vector total is
// constant for every input.
type HiddenStem struct {
	Stem   models.Stem
	Weight float64
}

// Traditional hidden-stem table. Principal stem first.
var hiddenStems = [12][]HiddenStem{
	{{models.Gui, 0.5}},                                              // Zi
	{{models.Ji, 0.3}, {models.Gui, 0.15}, {models.Xin, 0.05}},       // Chou
	{{models.Jia, 0.3}, {models.Bing, 0.15}, {models.WuStem, 0.05}},  // Yin
	{{models.Yi, 0.5}},                                               // Mao
	{{models.WuStem, 0.3}, {models.Yi, 0.15}, {models.Gui, 0.05}},    // Chen
	{{models.Bing, 0.3}, {models.Geng, 0.15}, {models.WuStem, 0.05}}, // Si
	{{models.Ding, 0.35}, {models.Ji, 0.15}},                         // Wu
	{{models.Ji, 0.3}, {models.Ding, 0.15}, {models.Yi, 0.05}},       // Wei
	{{models.Geng, 0.3}, {models.Ren, 0.15}, {models.WuStem, 0.05}},  // Shen
	{{models.Xin, 0.5}},                                              // You
	{{models.WuStem, 0.3}, {models.Xin, 0.15}, {models.Ding, 0.05}},  // Xu
	{{models.Ren, 0.35}, {models.Jia, 0.15}},                         // Hai
}

// StemElement returns the element of a heavenly stem.
func StemElement(s models.Stem) models.Element { return stemElements[int(s)%10] }

// BranchElement returns the element of an earthly branch.
func BranchElement(b models.Branch) models.Element { return branchElements[int(b)%12] }

// HiddenStems returns the hidden stems of a branch.
func HiddenStems(b models.Branch) []HiddenStem { return hiddenStems[int(b)%12] }
