package inflect

// English rule set. Suffix rules are listed from most to least specific;
// the first one that matches wins.

var defaultUncountable = []string{
	"equipment",
	"information",
	"rice",
	"money",
	"species",
	"series",
	"fish",
	"sheep",
	"deer",
	"news",
	"jeans",
	"police",
	"data",
	"metadata",
	"feedback",
	"software",
	"hardware",
	"aircraft",
	"moose",
	"salmon",
}

var defaultIrregular = [][2]string{
	{"person", "people"},
	{"man", "men"},
	{"woman", "women"},
	{"child", "children"},
	{"tooth", "teeth"},
	{"foot", "feet"},
	{"goose", "geese"},
	{"sex", "sexes"},
	{"move", "moves"},
	{"zombie", "zombies"},
	{"safe", "safes"},
	{"cafe", "cafes"},
	{"criterion", "criteria"},
	{"phenomenon", "phenomena"},
	{"cactus", "cacti"},
	{"die", "dice"},
	{"quiz", "quizzes"},
}

var defaultSuffixRules = [][2]string{
	{`^(ox)$`, "${1}en"},
	{`(m|l)ouse$`, "${1}ice"},
	{`(matr|vert|ind)(?:ix|ex)$`, "${1}ices"},
	{`(x|ch|ss|sh|zz)$`, "${1}es"},
	{`([^aeiouy]|qu)y$`, "${1}ies"},
	{`(?:([^f])fe|([lra])f)$`, "${1}${2}ves"},
	{`sis$`, "ses"},
	{`([ti])um$`, "${1}a"},
	{`(buffal|tomat|potat|her|ech|torped|vet)o$`, "${1}oes"},
	{`(bu)s$`, "${1}ses"},
	{`(alias|status|campus)$`, "${1}es"},
	{`(octop|vir)us$`, "${1}i"},
	{`^(ax|test)is$`, "${1}es"},
	{`(s|x|z)$`, "${1}es"},
}
