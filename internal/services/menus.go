package services

import (
	"fmt"
	"strings"

	"github.com/zrxcoding/Gaming/internal/models"
)

func button(label string, action models.Action) models.Button {
	return models.Button{Label: label, Action: action}
}

// RootMenu is shown for /start
func RootMenu() [][]models.Button {
	return [][]models.Button{
		{button("Start", models.ActionStartMain)},
		{button("Password", models.ActionPassword)},
		{button("Menu (Free Fire / BGMI / COD)", models.ActionMenuGames)},
	}
}

// GameMenu lists the supported games
func GameMenu() [][]models.Button {
	return [][]models.Button{
		{button(models.GameFreeFire.Title(), models.ActionGameFreeFire)},
		{button(models.GameBGMI.Title(), models.ActionGameBGMI)},
		{button(models.GameCOD.Title(), models.ActionGameCOD)},
		{button("Cancel", models.ActionCancel)},
	}
}

// DeviceMenu lists the tuning options once a device is known
func DeviceMenu() [][]models.Button {
	return [][]models.Button{
		{button("Sensitivity + DPI", models.ActionSensitivity)},
		{button("Internal Setting (step-by-step)", models.ActionInternal)},
		{button("Lag / Heating Fix", models.ActionLagFix)},
		{button("In-game Settings", models.ActionInGame)},
		{button("In-game Problems Fixing", models.ActionProblems)},
		{button("Control Layout Suggestions", models.ActionControls)},
		{button("Save Profile", models.ActionSaveProfile), button("Load Profile", models.ActionLoadProfile)},
		{button("Back to Games", models.ActionBackGames)},
	}
}

// RenderText flattens a reply for plain-text channels such as WhatsApp.
// Buttons become numbered lines; the numbers match Reply.Actions order so
// a typed number can be mapped back to the button.
func RenderText(reply models.Reply) string {
	if len(reply.Buttons) == 0 {
		return reply.Text
	}

	var b strings.Builder
	b.WriteString(reply.Text)
	b.WriteString("\n")
	n := 0
	for _, row := range reply.Buttons {
		for _, btn := range row {
			n++
			fmt.Fprintf(&b, "\n%d. %s", n, btn.Label)
		}
	}
	b.WriteString("\n\nReply with a number to choose.")
	return b.String()
}

func joinNumbers(items []float64) string {
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = formatNumber(v)
	}
	return strings.Join(parts, ", ")
}
