package cards

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
)

// headCoveringChance is the share of female portraits drawn with a headscarf.
const headCoveringChance = 0.6

var (
	ethnicities      = []string{"Javanese", "Sundanese", "Malay", "Batak", "Minangkabau", "Betawi", "Bugis", "Balinese", "Ambonese", "Chinese-Indonesian"}
	hairStylesMale   = []string{"short, neat black hair", "a crew cut", "slightly spiky hair", "combed-back hair", "an undercut hairstyle"}
	hairStylesFemale = []string{"long black hair tied back neatly", "shoulder-length hair", "a neat bob cut", "hair in a simple bun"}
	scarfColors      = []string{"black", "navy blue", "grey", "beige", "maroon", "white"}
	eyewear          = []string{"wearing thin-framed glasses", "wearing black-rimmed glasses", "with no glasses", "with no glasses", "with no glasses"}
	expressions      = []string{"a subtle smile", "a neutral expression", "a gentle smile", "a confident look"}
	lighting         = []string{"soft studio lighting", "bright natural light", "dramatic side-lighting", "even and clear lighting"}
	clothingColors   = []string{"a black", "a dark navy blue", "a charcoal grey"}
)

// PortraitPrompt describes an illustrated avatar for the given gender. Every
// fragment is an independent uniform draw from rng.
func PortraitPrompt(rng *rand.Rand, gender models.Gender) string {
	pick := func(options []string) string { return options[rng.IntN(len(options))] }

	var b strings.Builder
	fmt.Fprintf(&b, "A flat vector illustration avatar (not a photograph) of a fictional young adult in their early 20s, with %s. ", pick(expressions))
	fmt.Fprintf(&b, "The character is of %s descent. ", pick(ethnicities))

	if gender == models.Female {
		if rng.Float64() < headCoveringChance {
			fmt.Fprintf(&b, "The character wears a simple, neat %s headscarf. ", pick(scarfColors))
		} else {
			fmt.Fprintf(&b, "The character has %s. ", pick(hairStylesFemale))
		}
	} else {
		fmt.Fprintf(&b, "The character has %s. ", pick(hairStylesMale))
	}

	fmt.Fprintf(&b, "They are %s. ", pick(eyewear))
	fmt.Fprintf(&b, "They are wearing %s blazer over a white collared shirt. ", pick(clothingColors))
	fmt.Fprintf(&b, "Plain light blue background, %s, clean illustrated style, square framing.", pick(lighting))
	return b.String()
}
