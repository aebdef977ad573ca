package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zrxcoding/Gaming/internal/models"
	"github.com/zrxcoding/Gaming/internal/storage"
)

const testUser = "whatsapp:+15550001"

type conversationFixture struct {
	t        *testing.T
	ctx      context.Context
	conv     *Conversation
	sessions *SessionManager
	profiles storage.ProfileStore
}

func newConversationFixture(t *testing.T, profiles storage.ProfileStore) *conversationFixture {
	t.Helper()
	if profiles == nil {
		profiles = storage.NewMemoryStore()
	}
	sessions := NewSessionManager(storage.NewMemorySessionStore(), 0, zap.NewNop())
	return &conversationFixture{
		t:        t,
		ctx:      context.Background(),
		conv:     NewConversation(sessions, profiles, NewProfileResolver(DefaultCatalog()), "1234", zap.NewNop()),
		sessions: sessions,
		profiles: profiles,
	}
}

func (f *conversationFixture) send(ev models.Event) models.Reply {
	f.t.Helper()
	reply, err := f.conv.Handle(f.ctx, ev)
	require.NoError(f.t, err)
	return reply
}

func (f *conversationFixture) command(cmd models.Command) models.Reply {
	return f.send(models.CommandEvent(testUser, cmd))
}

func (f *conversationFixture) press(action models.Action) models.Reply {
	return f.send(models.ButtonEvent(testUser, action))
}

func (f *conversationFixture) text(text string) models.Reply {
	return f.send(models.TextEvent(testUser, text))
}

func (f *conversationFixture) session() *models.UserSession {
	f.t.Helper()
	s, err := f.sessions.GetSession(f.ctx, testUser)
	require.NoError(f.t, err)
	require.NotNil(f.t, s)
	return s
}

func TestConversationSensitivityDefaultFlow(t *testing.T) {
	f := newConversationFixture(t, nil)

	reply := f.command(models.CommandStart)
	assert.Equal(t, RootMenu(), reply.Buttons)

	reply = f.press(models.ActionGameBGMI)
	assert.Contains(t, reply.Text, "Selected game: BGMI")
	assert.Equal(t, models.PendingDevice, f.session().Pending)

	reply = f.text("Poco X3")
	assert.Contains(t, reply.Text, "Got device: Poco X3")
	assert.Equal(t, DeviceMenu(), reply.Buttons)
	assert.Equal(t, models.PendingNone, f.session().Pending)

	f.press(models.ActionSensitivity)
	assert.Equal(t, models.PendingDPI, f.session().Pending)

	f.text("480")
	s := f.session()
	assert.Equal(t, models.PendingCM360, s.Pending)
	require.NotNil(t, s.DPI)
	assert.Equal(t, 480, *s.DPI)

	reply = f.text("default")
	assert.Contains(t, reply.Text, "Suggested cm/360 for Poco X3 (BGMI): 30, 35, 40")
	assert.Contains(t, reply.Text, "- 30 cm/360 -> sensitivity ≈ 0.0014")
	assert.Contains(t, reply.Text, "- 35 cm/360 -> sensitivity ≈ 0.0012")
	assert.True(t, strings.HasSuffix(reply.Text, "- 40 cm/360 -> sensitivity ≈ 0.001"), reply.Text)
	assert.Equal(t, models.PendingNone, f.session().Pending)
}

func TestConversationCM360Number(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.press(models.ActionGameFreeFire)
	f.text("Poco X3")
	f.press(models.ActionSensitivity)
	f.text("480")

	reply := f.text("30")
	assert.Contains(t, reply.Text, "Device: Poco X3\nGame: FREEFIRE\nDPI: 480\ncm/360: 30")
	assert.Contains(t, reply.Text, "Approx. suggested in-game sensitivity: 0.0014")
	assert.Equal(t, models.PendingNone, f.session().Pending)
}

func TestConversationRepromptsOnBadNumbers(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.press(models.ActionSensitivity)

	for _, bad := range []string{"abc", "0", "-400", ""} {
		reply := f.text(bad)
		assert.Contains(t, reply.Text, "DPI should be a number", bad)
		assert.Equal(t, models.PendingDPI, f.session().Pending)
	}

	f.text("400")
	reply := f.text("fast")
	assert.Contains(t, reply.Text, "Couldn't parse cm/360")
	assert.Equal(t, models.PendingCM360, f.session().Pending)

	reply = f.text("0")
	assert.Contains(t, reply.Text, "Couldn't parse cm/360")
	assert.Equal(t, models.PendingCM360, f.session().Pending)
}

func TestConversationDefaultWithoutGame(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.press(models.ActionSensitivity)
	f.text("480")

	reply := f.text("default")
	assert.Contains(t, reply.Text, "No game selected")
	assert.Equal(t, models.PendingCM360, f.session().Pending)
}

func TestConversationCM360WithoutDPIUsesDefault(t *testing.T) {
	f := newConversationFixture(t, nil)

	require.NoError(t, f.sessions.WithSession(f.ctx, testUser, func(s *models.UserSession) error {
		s.Pending = models.PendingCM360
		return nil
	}))

	reply := f.text("30")
	assert.Contains(t, reply.Text, "DPI: 480")
	assert.Contains(t, reply.Text, "Game: -")
	assert.Contains(t, reply.Text, "Device: Unknown device")
}

func TestConversationPassword(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.press(models.ActionPassword)
	assert.Equal(t, models.PendingPassword, f.session().Pending)

	reply := f.text("nope")
	assert.Contains(t, reply.Text, "Wrong password")
	assert.False(t, f.session().Unlocked)
	assert.Equal(t, models.PendingNone, f.session().Pending)

	f.press(models.ActionPassword)
	reply = f.text(" 1234 ")
	assert.Contains(t, reply.Text, "Password correct")
	assert.True(t, f.session().Unlocked)
	assert.Equal(t, models.PendingNone, f.session().Pending)
}

func TestConversationFallbackLeavesStateUnchanged(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.press(models.ActionGameCOD)
	f.text("OnePlus 9")
	before := f.session()

	reply := f.text("hello there")
	assert.Equal(t, fallbackText, reply.Text)
	assert.Nil(t, reply.Buttons)

	after := f.session()
	assert.Equal(t, before.Pending, after.Pending)
	assert.Equal(t, before.SelectedGame, after.SelectedGame)
	assert.Equal(t, before.DeviceName, after.DeviceName)
	assert.Equal(t, before.DPI, after.DPI)
	assert.Equal(t, before.LastMenu, after.LastMenu)
}

func TestConversationUnknownAction(t *testing.T) {
	f := newConversationFixture(t, nil)

	reply := f.press(models.ParseAction("sub_teleport"))
	assert.Contains(t, reply.Text, "Unknown submenu option")
}

func TestConversationGameDetectedInText(t *testing.T) {
	f := newConversationFixture(t, nil)

	reply := f.text("i play pubg")
	assert.Contains(t, reply.Text, "Selected BGMI")
	s := f.session()
	game, ok := s.Game()
	require.True(t, ok)
	assert.Equal(t, models.GameBGMI, game)
	assert.Equal(t, models.PendingDevice, s.Pending)
}

func TestConversationMenuNumbers(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.command(models.CommandStart)
	// 3 on the root menu opens the game menu
	reply := f.text("3")
	assert.Equal(t, GameMenu(), reply.Buttons)

	// 2 on the game menu picks BGMI
	reply = f.text("2")
	assert.Contains(t, reply.Text, "Selected game: BGMI")

	// while a device is pending, numbers are the device name
	reply = f.text("7")
	assert.Contains(t, reply.Text, "Got device: 7")

	reply = f.text("99")
	assert.Equal(t, fallbackText, reply.Text)
}

func TestConversationNumberAfterReplyWithoutMenu(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.command(models.CommandStart)
	reply := f.press(models.ActionStartMain)
	require.Nil(t, reply.Buttons)
	assert.Empty(t, f.session().LastMenu)

	reply = f.text("2")
	assert.Equal(t, fallbackText, reply.Text)
	assert.Equal(t, models.PendingNone, f.session().Pending)

	// the problem prompt has no menu either
	f.command(models.CommandStart)
	f.press(models.ActionProblems)
	f.text("lag")
	reply = f.text("1")
	assert.Equal(t, fallbackText, reply.Text)
	assert.Equal(t, models.PendingNone, f.session().Pending)
}

func TestConversationInGameNeedsGame(t *testing.T) {
	f := newConversationFixture(t, nil)

	reply := f.press(models.ActionInGame)
	assert.Equal(t, GameMenu(), reply.Buttons)

	reply = f.press(models.ActionControls)
	assert.Equal(t, GameMenu(), reply.Buttons)

	f.press(models.ActionGameBGMI)
	f.text("Poco X3")
	reply = f.press(models.ActionInGame)
	assert.Contains(t, reply.Text, "- Graphics: Medium\n- Fps: 30")
	assert.Contains(t, reply.Text, "Suggested DPI: 480")
	assert.NotContains(t, reply.Text, "Estimated")

	f.press(models.ActionBackGames)
	f.press(models.ActionGameCOD)
	f.text("Moto G")
	reply = f.press(models.ActionInGame)
	assert.Contains(t, reply.Text, "Estimated from the device name: mid tier")
}

func TestConversationBackGamesClearsSelection(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.press(models.ActionGameBGMI)
	f.text("Poco X3")
	reply := f.press(models.ActionBackGames)
	assert.Equal(t, GameMenu(), reply.Buttons)

	s := f.session()
	_, hasGame := s.Game()
	_, hasDevice := s.Device()
	assert.False(t, hasGame)
	assert.False(t, hasDevice)
}

func TestConversationGuides(t *testing.T) {
	f := newConversationFixture(t, nil)

	reply := f.press(models.ActionInternal)
	assert.Contains(t, reply.Text, "Internal settings guide for Unknown device")
	assert.Contains(t, reply.Text, "Reboot before gaming.")

	f.press(models.ActionGameFreeFire)
	f.text("iPhone 12")
	reply = f.press(models.ActionLagFix)
	assert.Contains(t, reply.Text, "Lag/Heating Fix Checklist for iPhone 12")
	assert.Contains(t, reply.Text, "Turn off background app refresh for heavy apps.")

	reply = f.press(models.ActionControls)
	assert.Contains(t, reply.Text, "Free Fire - Suggested control layout")
	assert.Contains(t, reply.Text, "on iPhone")

	f.press(models.ActionProblems)
	assert.Equal(t, models.PendingProblem, f.session().Pending)
	reply = f.text("crash on launch")
	assert.Contains(t, reply.Text, "Troubleshooting (crash) for iPhone 12")
	assert.Equal(t, models.PendingNone, f.session().Pending)
}

func TestConversationSaveAndLoadProfile(t *testing.T) {
	profiles := storage.NewMemoryStore()
	f := newConversationFixture(t, profiles)

	f.press(models.ActionGameBGMI)
	f.text("Poco X3")
	reply := f.press(models.ActionSaveProfile)
	assert.Contains(t, reply.Text, "Profile saved for your account: Poco X3 / BGMI")

	saved, err := profiles.GetProfile(f.ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, "Poco X3", saved.Device)
	assert.Equal(t, models.GameBGMI, saved.Game)

	require.NoError(t, f.sessions.ResetSession(f.ctx, testUser))

	reply = f.press(models.ActionLoadProfile)
	assert.Equal(t, "Loaded profile: Poco X3 / BGMI", reply.Text)
	assert.Equal(t, DeviceMenu(), reply.Buttons)

	s := f.session()
	device, _ := s.Device()
	game, _ := s.Game()
	assert.Equal(t, "Poco X3", device)
	assert.Equal(t, models.GameBGMI, game)

	require.NoError(t, f.sessions.ResetSession(f.ctx, testUser))
	reply = f.text("Load profile please")
	assert.Equal(t, "Loaded profile: Poco X3 / BGMI", reply.Text)
}

func TestConversationLoadWithoutProfile(t *testing.T) {
	f := newConversationFixture(t, nil)

	reply := f.press(models.ActionLoadProfile)
	assert.Contains(t, reply.Text, "No saved profile found")

	reply = f.text("load profile")
	assert.Contains(t, reply.Text, "No saved profile found")
}

func TestConversationSaveRequiresGameAndDevice(t *testing.T) {
	profiles := storage.NewMemoryStore()
	f := newConversationFixture(t, profiles)

	reply := f.press(models.ActionSaveProfile)
	assert.Equal(t, GameMenu(), reply.Buttons)

	require.NoError(t, f.sessions.WithSession(f.ctx, testUser, func(s *models.UserSession) error {
		s.SetGame(models.GameCOD)
		return nil
	}))
	reply = f.press(models.ActionSaveProfile)
	assert.Contains(t, reply.Text, "Send your device model before saving")
	assert.Equal(t, models.PendingDevice, f.session().Pending)

	_, err := profiles.GetProfile(f.ctx, testUser)
	assert.ErrorIs(t, err, storage.ErrProfileNotFound)
}

type failingProfileStore struct {
	storage.ProfileStore
}

func (failingProfileStore) SaveProfile(context.Context, string, string, models.GameID) error {
	return errors.New("disk full")
}

func (failingProfileStore) GetProfile(context.Context, string) (*models.SavedProfile, error) {
	return nil, errors.New("disk full")
}

func TestConversationProfileStoreErrors(t *testing.T) {
	f := newConversationFixture(t, failingProfileStore{})

	f.press(models.ActionGameBGMI)
	f.text("Poco X3")

	reply := f.press(models.ActionSaveProfile)
	assert.Contains(t, reply.Text, "Couldn't save your profile")

	reply = f.press(models.ActionLoadProfile)
	assert.Contains(t, reply.Text, "Couldn't load your profile")
}

func TestConversationStartClearsPending(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.press(models.ActionSensitivity)
	f.command(models.CommandStart)
	assert.Equal(t, models.PendingNone, f.session().Pending)

	reply := f.command(models.CommandHelp)
	assert.Equal(t, helpText, reply.Text)
	reply = f.text("help me")
	assert.Equal(t, helpText, reply.Text)
}

func TestConversationUsersAreIsolated(t *testing.T) {
	f := newConversationFixture(t, nil)

	f.press(models.ActionSensitivity)
	reply, err := f.conv.Handle(f.ctx, models.TextEvent("someone-else", "480"))
	require.NoError(t, err)
	assert.Equal(t, fallbackText, reply.Text)
	assert.Equal(t, models.PendingDPI, f.session().Pending)
}

func TestRenderText(t *testing.T) {
	text := RenderText(models.Reply{Text: "Choose a game:", Buttons: GameMenu()})
	assert.Equal(t, "Choose a game:\n\n1. Free Fire\n2. BGMI\n3. COD Mobile\n4. Cancel\n\nReply with a number to choose.", text)

	assert.Equal(t, "plain", RenderText(models.Reply{Text: "plain"}))
}
