package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const bannerArt = `
 ╔═╗╔╦╗╦ ╦╔╦╗╦ ╦  ╔╗ ╦ ╦╔╦╗╔╦╗╦ ╦
 ╚═╗ ║ ║ ║ ║║╚╦╝  ╠╩╗║ ║ ║║ ║║╚╦╝
 ╚═╝ ╩ ╚═╝═╩╝ ╩   ╚═╝╚═╝═╩╝═╩╝ ╩ `

const bannerCompact = "S T U D Y   B U D D Y"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 36

// RenderBanner returns the banner styled in the primary color, or a
// compact one-line variant for narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
