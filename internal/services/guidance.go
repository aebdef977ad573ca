package services

import (
	"fmt"
	"strings"

	"github.com/zrxcoding/Gaming/internal/models"
)

// ProblemCategory is the kind of in-game problem a user described
type ProblemCategory string

const (
	ProblemPerformance ProblemCategory = "performance"
	ProblemCrash       ProblemCategory = "crash"
	ProblemAccount     ProblemCategory = "account"
	ProblemGeneric     ProblemCategory = "generic"
)

type problemRule struct {
	keywords []string
	category ProblemCategory
}

// First matching group wins
var problemRules = []problemRule{
	{keywords: []string{"lag", "fps", "frame", "stutter"}, category: ProblemPerformance},
	{keywords: []string{"crash", "closing", "force close", "stopped"}, category: ProblemCrash},
	{keywords: []string{"login", "auth", "account", "ban"}, category: ProblemAccount},
}

// ClassifyProblem maps a free text problem description to a category
func ClassifyProblem(description string) ProblemCategory {
	desc := strings.ToLower(description)
	for _, rule := range problemRules {
		if containsAny(desc, rule.keywords) {
			return rule.category
		}
	}
	return ProblemGeneric
}

// Troubleshoot returns the checklist for a described problem
func Troubleshoot(description, deviceName string) string {
	switch ClassifyProblem(description) {
	case ProblemPerformance:
		return fmt.Sprintf("Troubleshooting (lag/fps) for %s:\n"+
			"1) Close background apps & clear cache.\n"+
			"2) Lower graphics, disable shadows and AA.\n"+
			"3) Use Wi-Fi or stable network; check ping.\n"+
			"4) Reboot and test; if overheating reduce session time.", deviceName)
	case ProblemCrash:
		return fmt.Sprintf("Troubleshooting (crash) for %s:\n"+
			"1) Update the game & OS.\n"+
			"2) Clear game cache; reinstall if needed.\n"+
			"3) Ensure sufficient free storage and memory.", deviceName)
	case ProblemAccount:
		return fmt.Sprintf("Troubleshooting (login/account) for %s:\n"+
			"1) Check network & server status.\n"+
			"2) Try reinstall or clear cache.\n"+
			"3) If linked to social login, check those credentials.", deviceName)
	}
	return "Generic troubleshooting:\n" +
		"- Update game & OS, clear cache.\n" +
		"- Free up storage (>=2-5GB).\n" +
		"- Lower graphics and test.\n" +
		"If you give a specific short description (e.g., 'fps drops after 10 min'), I'll provide targeted steps."
}

type gameRule struct {
	keywords []string
	game     models.GameID
}

var gameRules = []gameRule{
	{keywords: []string{"free fire", "freefire", "ff"}, game: models.GameFreeFire},
	{keywords: []string{"bgmi", "pubg"}, game: models.GameBGMI},
	{keywords: []string{"cod", "call of duty"}, game: models.GameCOD},
}

// DetectGame looks for a game name in free text
func DetectGame(text string) (models.GameID, bool) {
	lowered := strings.ToLower(text)
	for _, rule := range gameRules {
		if containsAny(lowered, rule.keywords) {
			return rule.game, true
		}
	}
	return "", false
}

var controlLayouts = map[models.GameID]string{
	models.GameFreeFire: "Free Fire - Suggested control layout:\n" +
		"- Move: Left thumb bottom-left\n" +
		"- Aim: Right thumb near center-right\n" +
		"- Fire (ADS): Top-right (near right thumb)\n" +
		"- Jump/Crouch/Prone: Lower-right cluster\n" +
		"- Tip: Use slightly transparent fire button so crosshair remains visible.",
	models.GameBGMI: "BGMI/PUBG - Suggested control layout:\n" +
		"- Move: Left bottom\n" +
		"- Aim: Right center\n" +
		"- Fire: Right edge (use two-fire buttons for flexibility)\n" +
		"- Crouch/Prone/Jump: Lower-right cluster\n" +
		"- Tip: Enable gyroscope for fine aim if comfortable.",
	models.GameCOD: "COD Mobile - Suggested control layout:\n" +
		"- Move: Left bottom\n" +
		"- Aim: Right center\n" +
		"- Fire: Right edge (primary)\n" +
		"- Secondary fire/ADS: small button near right thumb\n" +
		"- Tip: Use tap-to-ADS or hold-to-ADS based on personal preference.",
}

// ControlLayout suggests an on-screen control layout for a game and device
func ControlLayout(game models.GameID, deviceName string) string {
	base, ok := controlLayouts[game]
	if !ok {
		base = "Default FPS layout: Move left, aim + fire on right. Customize by feel."
	}
	if strings.Contains(strings.ToLower(deviceName), "iphone") {
		return base + "\n\nDevice hint: on iPhone, buttons can be slightly smaller due to high touch accuracy."
	}
	return base + "\n\nDevice hint: On large screens, keep primary fire slightly inward for comfortable reach."
}
