package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/zrxcoding/Gaming/internal/models"
	"github.com/zrxcoding/Gaming/internal/storage"
)

const (
	unknownDevice = "Unknown device"
	defaultDPI    = 480

	helpText     = "Use /start to open the menu. Flow: /start -> Menu -> choose game -> send device -> choose option."
	fallbackText = "Sorry, I didn't get that. Use /start to open the menu or type 'help'."
)

// Conversation is the per-user menu state machine. Each event is handled as
// one turn under the user's session lock and produces exactly one reply.
type Conversation struct {
	sessions *SessionManager
	profiles storage.ProfileStore
	resolver *ProfileResolver
	password string
	logger   *zap.Logger
}

// NewConversation wires the state machine to its collaborators
func NewConversation(
	sessions *SessionManager,
	profiles storage.ProfileStore,
	resolver *ProfileResolver,
	password string,
	logger *zap.Logger,
) *Conversation {
	return &Conversation{
		sessions: sessions,
		profiles: profiles,
		resolver: resolver,
		password: password,
		logger:   logger.Named("Conversation"),
	}
}

// Handle processes one inbound event. The error is non-nil only when the
// session itself could not be loaded or saved.
func (c *Conversation) Handle(ctx context.Context, ev models.Event) (models.Reply, error) {
	var reply models.Reply
	err := c.sessions.WithSession(ctx, ev.UserID, func(s *models.UserSession) error {
		reply = c.dispatch(ctx, s, ev)
		// A typed number only selects from the menu of the latest reply. The
		// fallback changes nothing, so the menu on screen stays selectable.
		if reply.Text != fallbackText {
			s.LastMenu = reply.Actions()
		}
		return nil
	})
	if err != nil {
		return models.Reply{}, err
	}
	return reply, nil
}

func (c *Conversation) dispatch(ctx context.Context, s *models.UserSession, ev models.Event) models.Reply {
	c.logger.Debug("Handling event",
		zap.String("user_id", ev.UserID),
		zap.Int("kind", int(ev.Kind)),
		zap.String("action", ev.Action.Token()),
		zap.String("pending", string(s.Pending)),
	)

	switch ev.Kind {
	case models.EventCommand:
		return c.handleCommand(s, ev.Command)
	case models.EventButton:
		return c.handleAction(ctx, s, ev.Action)
	case models.EventText:
		return c.handleText(ctx, s, ev.Text)
	}
	return models.Reply{Text: fallbackText}
}

func (c *Conversation) handleCommand(s *models.UserSession, cmd models.Command) models.Reply {
	switch cmd {
	case models.CommandStart:
		s.Pending = models.PendingNone
		return models.Reply{Text: "🔥 Gaming Utility Bot ready. Choose:", Buttons: RootMenu()}
	case models.CommandHelp:
		return models.Reply{Text: helpText}
	}
	return models.Reply{Text: fallbackText}
}

func (c *Conversation) handleAction(ctx context.Context, s *models.UserSession, action models.Action) models.Reply {
	if game, ok := action.Game(); ok {
		return c.selectGame(s, game, fmt.Sprintf("Selected game: %s\nNow send your device model (e.g., 'Xiaomi Poco X3'):", strings.ToUpper(string(game))))
	}

	switch action {
	case models.ActionStartMain:
		return models.Reply{Text: "Welcome! Use Menu to start or Password to unlock advanced options."}

	case models.ActionPassword:
		s.Pending = models.PendingPassword
		return models.Reply{Text: "Enter password to unlock advanced features (type password):"}

	case models.ActionMenuGames:
		return models.Reply{Text: "Choose a game:", Buttons: GameMenu()}

	case models.ActionCancel:
		s.Pending = models.PendingNone
		return models.Reply{Text: "Cancelled. Use /start to go back."}

	case models.ActionBackGames:
		s.Pending = models.PendingNone
		s.ClearSelection()
		return models.Reply{Text: "Choose a game:", Buttons: GameMenu()}

	case models.ActionSensitivity:
		s.Pending = models.PendingDPI
		return models.Reply{Text: "Sensitivity selected.\nSend your DPI (e.g., 400 / 480 / 560):"}

	case models.ActionInternal:
		device := deviceOrDefault(s)
		profile, _ := c.resolver.Resolve(device)
		return c.deviceReply(fmt.Sprintf("Internal settings guide for %s:\n\n%s", device, strings.Join(profile.InternalSteps, "\n")))

	case models.ActionLagFix:
		device := deviceOrDefault(s)
		profile, _ := c.resolver.Resolve(device)
		return c.deviceReply(fmt.Sprintf("Lag/Heating Fix Checklist for %s:\n\n%s", device, strings.Join(profile.LagFixSteps, "\n")))

	case models.ActionInGame:
		return c.inGameSettings(s)

	case models.ActionProblems:
		s.Pending = models.PendingProblem
		return models.Reply{Text: "Describe the in-game problem (e.g., 'lag after 10 minutes', 'crash on launch'):"}

	case models.ActionControls:
		game, ok := s.Game()
		if !ok {
			return chooseGameFirst()
		}
		return c.deviceReply(ControlLayout(game, deviceOrDefault(s)))

	case models.ActionSaveProfile:
		return c.saveProfile(ctx, s)

	case models.ActionLoadProfile:
		reply := c.loadProfile(ctx, s)
		reply.Buttons = DeviceMenu()
		return reply
	}

	return models.Reply{Text: "Unknown submenu option. Use /start to begin."}
}

func (c *Conversation) handleText(ctx context.Context, s *models.UserSession, raw string) models.Reply {
	text := strings.TrimSpace(raw)

	switch s.Pending {
	case models.PendingPassword:
		s.Pending = models.PendingNone
		if text == c.password {
			s.Unlocked = true
			return models.Reply{Text: "✅ Password correct. Advanced features unlocked!"}
		}
		return models.Reply{Text: "❌ Wrong password. Try /start again."}

	case models.PendingDevice:
		if text == "" {
			return models.Reply{Text: "Send your device model (e.g., 'Poco X3'):"}
		}
		s.SetDevice(text)
		s.Pending = models.PendingNone
		return c.deviceReply(fmt.Sprintf("Got device: %s\nNow choose an option:", text))

	case models.PendingDPI:
		dpi, err := ParsePositiveInt(text)
		if err != nil {
			return models.Reply{Text: "DPI should be a number like 400, 480, 560. Send DPI again:"}
		}
		s.DPI = &dpi
		s.Pending = models.PendingCM360
		return models.Reply{Text: "Got DPI. Now send desired cm/360 (e.g., 30) or send 'default' for suggestions:"}

	case models.PendingCM360:
		return c.handleCM360(s, text)

	case models.PendingProblem:
		s.Pending = models.PendingNone
		return models.Reply{Text: Troubleshoot(text, deviceOrDefault(s))}
	}

	lowered := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lowered, "load profile"):
		return c.loadProfile(ctx, s)
	case strings.HasPrefix(lowered, "help"):
		return models.Reply{Text: helpText}
	}

	if action, ok := menuChoice(s, text); ok {
		return c.handleAction(ctx, s, action)
	}

	if game, ok := DetectGame(text); ok {
		return c.selectGame(s, game, fmt.Sprintf("Selected %s. Now send your device model (e.g., 'Poco X3'):", strings.ToUpper(string(game))))
	}

	return models.Reply{Text: fallbackText}
}

func (c *Conversation) handleCM360(s *models.UserSession, text string) models.Reply {
	dpi := defaultDPI
	if s.DPI != nil {
		dpi = *s.DPI
	}
	device := deviceOrDefault(s)

	if strings.EqualFold(text, "default") {
		game, ok := s.Game()
		if !ok {
			return models.Reply{Text: "No game selected, so there are no suggestions. Send a cm/360 number (e.g., 30), or pick a game first."}
		}
		profile, _ := c.resolver.Resolve(device)
		preset, _ := profile.Preset(game)
		s.Pending = models.PendingNone

		var b strings.Builder
		fmt.Fprintf(&b, "Suggested cm/360 for %s (%s): %s\n\nExamples with DPI=%d:", device, strings.ToUpper(string(game)), joinNumbers(preset.CM360Suggestions), dpi)
		for _, cm := range preset.CM360Suggestions {
			fmt.Fprintf(&b, "\n- %s cm/360 -> sensitivity ≈ %s", formatNumber(cm), formatNumber(CM360ToSensitivity(cm, dpi, DefaultGameScale)))
		}
		return c.deviceReply(b.String())
	}

	cm360, err := ParsePositiveFloat(text)
	if err != nil {
		return models.Reply{Text: "Couldn't parse cm/360. Send a number like 30 or 'default'."}
	}
	s.Pending = models.PendingNone

	gameLabel := "-"
	if game, ok := s.Game(); ok {
		gameLabel = strings.ToUpper(string(game))
	}
	sens := CM360ToSensitivity(cm360, dpi, DefaultGameScale)
	return c.deviceReply(fmt.Sprintf(
		"Device: %s\nGame: %s\nDPI: %d\ncm/360: %s\n\nApprox. suggested in-game sensitivity: %s\n\n"+
			"Note: This is an approximation. Fine-tune in small increments (0.01 - 0.1) in-game.",
		device, gameLabel, dpi, formatNumber(cm360), formatNumber(sens)))
}

func (c *Conversation) inGameSettings(s *models.UserSession) models.Reply {
	game, ok := s.Game()
	if !ok {
		return chooseGameFirst()
	}
	device := deviceOrDefault(s)
	profile, known := c.resolver.Resolve(device)
	preset, _ := profile.Preset(game)

	var b strings.Builder
	fmt.Fprintf(&b, "In-game recommended settings for %s (%s):\n\n", device, strings.ToUpper(string(game)))
	fmt.Fprintf(&b, "- Graphics: %s\n- Fps: %s\n", preset.Graphics, preset.FPS)
	fmt.Fprintf(&b, "\nSuggested DPI: %d\nSuggested cm/360 examples: %s", preset.DPI, joinNumbers(preset.CM360Suggestions))
	if !known {
		fmt.Fprintf(&b, "\n\n(Estimated from the device name: %s tier, ~%d GB RAM.)", profile.CPUTier, profile.RAMTierGB)
	}
	return c.deviceReply(b.String())
}

// saveProfile refuses to store a profile with a missing device or game
func (c *Conversation) saveProfile(ctx context.Context, s *models.UserSession) models.Reply {
	game, hasGame := s.Game()
	device, hasDevice := s.Device()
	if !hasGame {
		return models.Reply{Text: "Pick a game before saving a profile:", Buttons: GameMenu()}
	}
	if !hasDevice {
		s.Pending = models.PendingDevice
		return models.Reply{Text: "Send your device model before saving a profile (e.g., 'Poco X3'):"}
	}

	if err := c.profiles.SaveProfile(ctx, s.UserID, device, game); err != nil {
		c.logger.Error("Failed to save profile", zap.String("user_id", s.UserID), zap.Error(err))
		return c.deviceReply("❌ Couldn't save your profile right now. Please try again.")
	}

	c.logger.Info("Profile saved", zap.String("user_id", s.UserID), zap.String("device", device), zap.String("game", string(game)))
	return c.deviceReply(fmt.Sprintf("Profile saved for your account: %s / %s", device, game.Title()))
}

func (c *Conversation) loadProfile(ctx context.Context, s *models.UserSession) models.Reply {
	profile, err := c.profiles.GetProfile(ctx, s.UserID)
	if errors.Is(err, storage.ErrProfileNotFound) {
		return models.Reply{Text: "No saved profile found. Use 'Save Profile' first."}
	}
	if err != nil {
		c.logger.Warn("Failed to load profile", zap.String("user_id", s.UserID), zap.Error(err))
		return models.Reply{Text: "❌ Couldn't load your profile right now. Please try again."}
	}

	game, err := models.ParseGameID(string(profile.Game))
	if err != nil {
		c.logger.Warn("Saved profile has an unsupported game", zap.String("user_id", s.UserID), zap.String("game", string(profile.Game)))
		return models.Reply{Text: "No saved profile found. Use 'Save Profile' first."}
	}

	s.SetDevice(profile.Device)
	s.SetGame(game)
	return models.Reply{Text: fmt.Sprintf("Loaded profile: %s / %s", profile.Device, game.Title())}
}

func (c *Conversation) selectGame(s *models.UserSession, game models.GameID, prompt string) models.Reply {
	s.SetGame(game)
	s.Pending = models.PendingDevice
	return models.Reply{Text: prompt}
}

func (c *Conversation) deviceReply(text string) models.Reply {
	return models.Reply{Text: text, Buttons: DeviceMenu()}
}

func chooseGameFirst() models.Reply {
	return models.Reply{Text: "Choose a game first:", Buttons: GameMenu()}
}

// menuChoice maps a typed number to an entry of the last menu shown
func menuChoice(s *models.UserSession, text string) (models.Action, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > len(s.LastMenu) {
		return models.ActionUnknown, false
	}
	return s.LastMenu[n-1], true
}

func deviceOrDefault(s *models.UserSession) string {
	if device, ok := s.Device(); ok {
		return device
	}
	return unknownDevice
}
