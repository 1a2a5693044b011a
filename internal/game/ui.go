//go:build !android

package game

import (
	"fmt"

	"labyrinth/internal/sim"
)

// RenderHUD draws session stats, the first-spawn key hint and the win banner.
func RenderHUD(r *Renderer, snap sim.Snapshot, muted bool, fbW, fbH int) {
	pad := 12
	st := snap.Stats
	line := fmt.Sprintf("ATTEMPT %d   TIME %5.1fs   FALLS %d", st.Attempts, st.RunTime, st.Falls)
	r.DrawString(line, pad, pad, HUDScale, Palette.HUD)
	if muted {
		r.DrawString("MUTED", fbW-pad-TextWidth("MUTED", HUDScale), pad, HUDScale, Palette.HUDDim)
	}

	if st.Attempts == 1 && snap.Phase == sim.PhaseRespawnGrow {
		hint := "ARROWS/WASD TILT   M MUTE   ESC QUIT"
		x := (fbW - TextWidth(hint, HUDScale)) / 2
		r.DrawString(hint, x, fbH-pad-FontCellH*HUDScale, HUDScale, Palette.HUDDim)
	}

	if snap.Phase == sim.PhaseSplash {
		banner := "YOU WIN!"
		x := (fbW - TextWidth(banner, BannerScale)) / 2
		y := (fbH - FontCellH*BannerScale) / 2
		r.DrawString(banner, x, y, BannerScale, Palette.Win)
		sub := fmt.Sprintf("%d ATTEMPTS   %.1fs", st.Attempts, st.RunTime)
		r.DrawString(sub, (fbW-TextWidth(sub, HUDScale))/2, y+FontCellH*BannerScale+pad, HUDScale, Palette.HUD)
	}

	r.FlushText(fbW, fbH)
}
