package texmath

// Greek and letter-like commands rendered as identifiers.
var letters = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ϵ",
	"varepsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ",
	"omicron": "ο", "pi": "π", "varpi": "ϖ", "rho": "ρ", "varrho": "ϱ",
	"sigma": "σ", "varsigma": "ς", "tau": "τ", "upsilon": "υ", "phi": "ϕ",
	"varphi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"ell": "ℓ", "hbar": "ℏ", "imath": "ı", "jmath": "ȷ", "wp": "℘",
	"aleph": "ℵ", "beth": "ℶ",
}

// Upright letters: capital Greek and a few named symbols.
var uprightLetters = map[string]string{
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ",
	"Pi": "Π", "Sigma": "Σ", "Upsilon": "Υ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",
	"Re": "ℜ", "Im": "ℑ", "infty": "∞", "emptyset": "∅", "varnothing": "∅",
	"partial": "∂", "nabla": "∇", "forall": "∀", "exists": "∃", "nexists": "∄",
	"top": "⊤", "bot": "⊥", "angle": "∠", "triangle": "△", "prime": "′",
	"surd": "√", "clubsuit": "♣", "diamondsuit": "♢", "heartsuit": "♡",
	"spadesuit": "♠", "checkmark": "✓", "complement": "∁",
}

// Binary operators, relations, arrows and punctuation rendered as operators.
var operators = map[string]string{
	// binary
	"pm": "±", "mp": "∓", "times": "×", "div": "÷", "cdot": "⋅", "ast": "∗",
	"star": "⋆", "circ": "∘", "bullet": "∙", "oplus": "⊕", "ominus": "⊖",
	"otimes": "⊗", "oslash": "⊘", "odot": "⊙", "cap": "∩", "cup": "∪",
	"sqcap": "⊓", "sqcup": "⊔", "wedge": "∧", "land": "∧", "vee": "∨", "lor": "∨",
	"setminus": "∖", "wr": "≀", "dagger": "†", "ddagger": "‡", "amalg": "⨿",
	"neg": "¬", "lnot": "¬",
	// relations
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠",
	"leqslant": "⩽", "geqslant": "⩾", "approx": "≈", "equiv": "≡", "sim": "∼",
	"simeq": "≃", "cong": "≅", "propto": "∝", "ll": "≪", "gg": "≫",
	"prec": "≺", "succ": "≻", "preceq": "⪯", "succeq": "⪰", "doteq": "≐",
	"subset": "⊂", "supset": "⊃", "subseteq": "⊆", "supseteq": "⊇",
	"subsetneq": "⊊", "supsetneq": "⊋", "sqsubseteq": "⊑", "sqsupseteq": "⊒",
	"in": "∈", "notin": "∉", "ni": "∋", "mid": "∣", "nmid": "∤",
	"parallel": "∥", "nparallel": "∦", "perp": "⊥", "vdash": "⊢", "dashv": "⊣",
	"models": "⊨", "asymp": "≍", "bowtie": "⋈", "smile": "⌣", "frown": "⌢",
	// arrows
	"to": "→", "rightarrow": "→", "leftarrow": "←", "gets": "←",
	"leftrightarrow": "↔", "Rightarrow": "⇒", "Leftarrow": "⇐",
	"Leftrightarrow": "⇔", "implies": "⟹", "impliedby": "⟸", "iff": "⟺",
	"longrightarrow": "⟶", "longleftarrow": "⟵", "Longrightarrow": "⟹",
	"Longleftarrow": "⟸", "longleftrightarrow": "⟷", "Longleftrightarrow": "⟺",
	"mapsto": "↦", "longmapsto": "⟼", "uparrow": "↑", "downarrow": "↓",
	"Uparrow": "⇑", "Downarrow": "⇓", "updownarrow": "↕", "nearrow": "↗",
	"searrow": "↘", "swarrow": "↙", "nwarrow": "↖", "hookrightarrow": "↪",
	"hookleftarrow": "↩", "rightharpoonup": "⇀", "leftharpoonup": "↼",
	"rightleftharpoons": "⇌",
	// dots and punctuation
	"ldots": "…", "dots": "…", "cdots": "⋯", "vdots": "⋮", "ddots": "⋱",
	"colon": ":", "therefore": "∴", "because": "∵",
}

// Delimiters usable after \left, \right and \middle, and on their own.
var delimiters = map[string]string{
	"(": "(", ")": ")", "[": "[", "]": "]", "|": "|", "/": "/",
	"{": "{", "}": "}", "lbrace": "{", "rbrace": "}",
	"langle": "⟨", "rangle": "⟩", "lceil": "⌈", "rceil": "⌉",
	"lfloor": "⌊", "rfloor": "⌋", "lvert": "|", "rvert": "|", "vert": "|",
	"lVert": "‖", "rVert": "‖", "Vert": "‖", "||": "‖", "backslash": "∖",
	"lgroup": "⟮", "rgroup": "⟯", "uparrow": "↑", "downarrow": "↓",
	".": "",
}

// bigOperator describes a large operator; limits reports whether scripts
// go above and below in display style.
type bigOperator struct {
	symbol string
	limits bool
}

var bigOperators = map[string]bigOperator{
	"sum": {"∑", true}, "prod": {"∏", true}, "coprod": {"∐", true},
	"bigcup": {"⋃", true}, "bigcap": {"⋂", true}, "bigvee": {"⋁", true},
	"bigwedge": {"⋀", true}, "bigoplus": {"⨁", true}, "bigotimes": {"⨂", true},
	"bigodot": {"⨀", true}, "biguplus": {"⨄", true}, "bigsqcup": {"⨆", true},
	"int": {"∫", false}, "iint": {"∬", false}, "iiint": {"∭", false},
	"oint": {"∮", false}, "oiint": {"∯", false},
}

// Named functions rendered upright; the value reports limit placement.
var functions = map[string]bool{
	"sin": false, "cos": false, "tan": false, "cot": false, "sec": false, "csc": false,
	"arcsin": false, "arccos": false, "arctan": false, "sinh": false, "cosh": false,
	"tanh": false, "coth": false, "log": false, "ln": false, "lg": false,
	"exp": false, "deg": false, "dim": false, "ker": false, "arg": false,
	"hom": false, "det": true, "gcd": true, "Pr": true,
	"lim": true, "liminf": true, "limsup": true, "max": true, "min": true,
	"sup": true, "inf": true,
}

// Accents placed over (or under) their argument.
type accent struct {
	mark  string
	under bool
	// stretchy marks cover the whole argument
	stretchy bool
}

var accents = map[string]accent{
	"hat": {"^", false, false}, "widehat": {"^", false, true},
	"bar": {"¯", false, false}, "overline": {"―", false, true},
	"vec": {"→", false, false}, "overrightarrow": {"→", false, true},
	"overleftarrow": {"←", false, true}, "dot": {"˙", false, false},
	"ddot": {"¨", false, false}, "tilde": {"~", false, true},
	"widetilde": {"~", false, true}, "check": {"ˇ", false, false},
	"breve": {"˘", false, false}, "acute": {"´", false, false},
	"grave": {"`", false, false}, "mathring": {"˚", false, false},
	"overbrace": {"⏞", false, true}, "underbrace": {"⏟", true, true},
	"underline": {"―", true, true},
}

// Font commands mapped to MathML mathvariant values.
var fontVariants = map[string]string{
	"mathbb": "double-struck", "mathbf": "bold", "boldsymbol": "bold-italic",
	"bm": "bold-italic", "mathcal": "script", "mathscr": "script",
	"mathfrak": "fraktur", "mathsf": "sans-serif", "mathtt": "monospace",
	"mathit": "italic", "mathrm": "normal", "rm": "normal", "bf": "bold",
	"it": "italic", "cal": "script",
}

// Text-mode commands whose argument is copied verbatim.
var textCommands = map[string]string{
	"text": "normal", "textrm": "normal", "mbox": "normal", "textnormal": "normal",
	"textbf": "bold", "textit": "italic", "textsf": "sans-serif",
	"texttt": "monospace",
}

// Horizontal spacing commands, in em.
var spaces = map[string]string{
	",": "0.1667em", "thinspace": "0.1667em", ":": "0.2222em", ">": "0.2222em",
	"medspace": "0.2222em", ";": "0.2778em", "thickspace": "0.2778em",
	" ": "0.25em", "quad": "1em", "qquad": "2em", "enspace": "0.5em",
	"!": "-0.1667em", "negthinspace": "-0.1667em",
}

// Characters that a backslash turns into plain symbols.
var escapedChars = map[string]string{
	"{": "{", "}": "}", "$": "$", "%": "%", "&": "&", "#": "#", "_": "_",
	"|": "‖",
}

// Negated relations for \not.
var negations = map[string]string{
	"=": "≠", "<": "≮", ">": "≯", "≤": "≰", "≥": "≱", "∈": "∉", "∋": "∌",
	"⊂": "⊄", "⊃": "⊅", "⊆": "⊈", "⊇": "⊉", "≡": "≢", "∼": "≁", "≈": "≉",
	"≅": "≇", "∣": "∤", "∥": "∦",
}

// Plain characters rendered as operators, with a few substitutions.
var operatorChars = map[rune]string{
	'+': "+", '-': "−", '*': "∗", '/': "/", '=': "=", '<': "<", '>': ">",
	'(': "(", ')': ")", '[': "[", ']': "]", '|': "|", ',': ",", ';': ";",
	':': ":", '!': "!", '?': "?", '.': ".", '@': "@", '~': " ",
}

// matrixDelimiters maps matrix environments to their fences.
var matrixDelimiters = map[string][2]string{
	"matrix":      {"", ""},
	"pmatrix":     {"(", ")"},
	"bmatrix":     {"[", "]"},
	"Bmatrix":     {"{", "}"},
	"vmatrix":     {"|", "|"},
	"Vmatrix":     {"‖", "‖"},
	"smallmatrix": {"", ""},
}

// alignEnvironments lay out rows with alternating right/left columns.
var alignEnvironments = map[string]bool{
	"align": true, "align*": true, "aligned": true, "gather": true,
	"gather*": true, "gathered": true, "equation": true, "equation*": true,
	"split": true, "multline": true, "multline*": true,
}
