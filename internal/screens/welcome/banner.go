package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phonix/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██╗  ██╗ ██████╗ ███╗   ██╗██╗██╗  ██╗
 ██╔══██╗██║  ██║██╔═══██╗████╗  ██║██║╚██╗██╔╝
 ██████╔╝███████║██║   ██║██╔██╗ ██║██║ ╚███╔╝
 ██╔═══╝ ██╔══██║██║   ██║██║╚██╗██║██║ ██╔██╗
 ██║     ██║  ██║╚██████╔╝██║ ╚████║██║██╔╝ ██╗
 ╚═╝     ╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝╚═╝  ╚═╝`

const bannerCompact = "P H O N I X"

// RenderBanner returns the banner in the primary color, falling back to a
// compact form for terminals narrower than 52 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
