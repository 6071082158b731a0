package skill

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(opts ...Option) *Router {
	return NewRouter(append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

func intentReq(name string, slots Slots) IntentRequest {
	return IntentRequest{RequestID: "req-1", Intent: Intent{Name: name, Slots: slots}}
}

func TestRoute_Launch(t *testing.T) {
	r := newTestRouter()

	sess, resp, err := r.Route(context.Background(), Launch{RequestID: "req-1"}, Session{ID: "s1"})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Contains(t, resp.Speech, "Welcome to the Hurricane Center")
	assert.False(t, resp.ShouldEndSession)
	assert.True(t, resp.HasReprompt())
	assert.Equal(t, "Welcome", resp.Card.Title)
	assert.Equal(t, resp.Speech, resp.Card.Content)
	assert.Equal(t, "s1", sess.ID)
}

func TestRoute_SetOceanPreference(t *testing.T) {
	r := newTestRouter()

	t.Run("valid ocean", func(t *testing.T) {
		sess, resp, err := r.Route(context.Background(),
			intentReq(IntentSetOceanPreference, Slots{SlotOcean: "Pacific"}), Session{ID: "s1"})
		require.NoError(t, err)
		assert.Equal(t, OceanPacific, sess.Attributes.Ocean)
		assert.Equal(t, map[string]any{"ocean": "Pacific"}, sess.Attributes.Map())
		assert.Contains(t, resp.Speech, "Pacific ocean")
		assert.False(t, resp.ShouldEndSession)
	})

	t.Run("invalid ocean", func(t *testing.T) {
		sess, resp, err := r.Route(context.Background(),
			intentReq(IntentSetOceanPreference, Slots{SlotOcean: "Gulf"}), Session{ID: "s1"})
		require.NoError(t, err)
		assert.Empty(t, sess.Attributes.Map())
		assert.Contains(t, resp.Speech, "Please try again")
		assert.Contains(t, resp.Reprompt, "Atlantic or Pacific")
		assert.False(t, resp.ShouldEndSession)
	})

	t.Run("missing slot", func(t *testing.T) {
		sess, resp, err := r.Route(context.Background(),
			intentReq(IntentSetOceanPreference, nil), Session{ID: "s1"})
		require.NoError(t, err)
		assert.False(t, sess.Attributes.HasOcean())
		assert.Contains(t, resp.Speech, "Please try again")
	})

	t.Run("case sensitive", func(t *testing.T) {
		sess, _, err := r.Route(context.Background(),
			intentReq(IntentSetOceanPreference, Slots{SlotOcean: "pacific"}), Session{ID: "s1"})
		require.NoError(t, err)
		assert.False(t, sess.Attributes.HasOcean())
	})

	t.Run("invalid value keeps earlier preference", func(t *testing.T) {
		prior := Session{ID: "s1", Attributes: Attributes{Ocean: OceanAtlantic}}
		sess, _, err := r.Route(context.Background(),
			intentReq(IntentSetOceanPreference, Slots{SlotOcean: "Indian"}), prior)
		require.NoError(t, err)
		assert.Equal(t, OceanAtlantic, sess.Attributes.Ocean)
	})
}

func TestRoute_SetOceanPreferenceIdempotent(t *testing.T) {
	r := newTestRouter()
	req := intentReq(IntentSetOceanPreference, Slots{SlotOcean: "Atlantic"})

	first, _, err := r.Route(context.Background(), req, Session{ID: "s1"})
	require.NoError(t, err)
	second, _, err := r.Route(context.Background(), req, first)
	require.NoError(t, err)

	assert.Equal(t, first.Attributes, second.Attributes)
}

func TestRoute_RoundTripPreference(t *testing.T) {
	r := newTestRouter()

	sess, _, err := r.Route(context.Background(),
		intentReq(IntentSetOceanPreference, Slots{SlotOcean: "Atlantic"}), Session{ID: "s1"})
	require.NoError(t, err)

	sess, resp, err := r.Route(context.Background(), intentReq(IntentListStormNames, nil), sess)
	require.NoError(t, err)
	assert.Contains(t, resp.Speech, "Atlantic")
	assert.False(t, resp.HasReprompt())
	assert.Equal(t, OceanAtlantic, sess.Attributes.Ocean)
}

func TestRoute_ListStormNamesWithoutPreference(t *testing.T) {
	r := newTestRouter()

	_, resp, err := r.Route(context.Background(), intentReq(IntentListStormNames, nil), Session{ID: "s1"})
	require.NoError(t, err)
	assert.Contains(t, resp.Speech, "Which ocean")
	assert.False(t, resp.HasReprompt())
	assert.False(t, resp.ShouldEndSession)
}

func TestRoute_ThisYearsStorms(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name  string
		attrs Attributes
		want  string
	}{
		{name: "atlantic", attrs: Attributes{Ocean: OceanAtlantic}, want: "Alex, Bonnie, Colin, Danielle, and Earl"},
		{name: "pacific", attrs: Attributes{Ocean: OceanPacific}, want: "Agatha, Blas, Celia, Darby, and Estelle"},
		{name: "unset", attrs: Attributes{}, want: "saying Atlantic Ocean or Pacific Ocean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, resp, err := r.Route(context.Background(), intentReq(IntentThisYearsStorms, nil),
				Session{ID: "s1", Attributes: tt.attrs})
			require.NoError(t, err)
			assert.Contains(t, resp.Speech, tt.want)
			assert.False(t, resp.HasReprompt())
			assert.False(t, resp.ShouldEndSession)
			assert.Equal(t, tt.attrs, sess.Attributes)
		})
	}
}

func TestRoute_StopAndCancel(t *testing.T) {
	r := newTestRouter()

	for _, name := range []string{IntentStop, IntentCancel} {
		t.Run(name, func(t *testing.T) {
			sess, resp, err := r.Route(context.Background(), intentReq(name, nil),
				Session{ID: "s1", Attributes: Attributes{Ocean: OceanPacific}})
			require.NoError(t, err)
			assert.Contains(t, resp.Speech, "Have a nice day")
			assert.True(t, resp.ShouldEndSession)
			assert.False(t, resp.HasReprompt())
			assert.Empty(t, sess.Attributes.Map())
		})
	}
}

func TestRoute_HelpAndStartOverWelcome(t *testing.T) {
	r := newTestRouter()

	for _, name := range []string{IntentHelp, IntentStartOver} {
		_, resp, err := r.Route(context.Background(), intentReq(name, nil), Session{ID: "s1"})
		require.NoError(t, err, name)
		assert.Contains(t, resp.Speech, "Welcome to the Hurricane Center", name)
	}
}

func TestRoute_SupportedIntentsSpeak(t *testing.T) {
	r := newTestRouter()
	stubs := map[string]bool{IntentCompleteListOfStorms: true, IntentStormsFromPriorYears: true}

	for _, name := range r.Intents() {
		t.Run(name, func(t *testing.T) {
			_, resp, err := r.Route(context.Background(), intentReq(name, nil), Session{ID: "s1"})
			require.NoError(t, err)
			require.NotNil(t, resp)
			if stubs[name] {
				assert.Empty(t, resp.Speech)
				assert.False(t, resp.ShouldEndSession)
				assert.False(t, resp.HasReprompt())
				return
			}
			assert.NotEmpty(t, resp.Speech)
			if resp.ShouldEndSession {
				assert.False(t, resp.HasReprompt())
			}
		})
	}
}

func TestRoute_UnrecognizedIntent(t *testing.T) {
	r := newTestRouter()

	for _, name := range []string{"Unsupported", "", "listStormNames", "AMAZON.FallbackIntent"} {
		in := Session{ID: "s1", Attributes: Attributes{Ocean: OceanAtlantic}}
		sess, resp, err := r.Route(context.Background(), intentReq(name, nil), in)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, ErrUnrecognizedIntent))

		var uie *UnrecognizedIntentError
		require.True(t, errors.As(err, &uie))
		assert.Equal(t, name, uie.Name)
		assert.Equal(t, in, sess)
	}
}

func TestRoute_UnrecognizedRequestType(t *testing.T) {
	r := newTestRouter()

	_, resp, err := r.Route(context.Background(), nil, Session{ID: "s1"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrUnrecognizedRequestType)
	assert.False(t, errors.Is(err, ErrUnrecognizedIntent))
}

func TestRoute_SessionLifecycle(t *testing.T) {
	var ended []string
	r := newTestRouter(WithSessionEndedHook(func(_ context.Context, s Session, reason string) {
		ended = append(ended, s.ID+":"+reason)
	}))

	sess := Session{ID: "s1", New: true, Attributes: Attributes{Ocean: OceanAtlantic}}

	got, resp, err := r.Route(context.Background(), SessionStarted{RequestID: "r0"}, sess)
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, sess, got)

	got, resp, err = r.Route(context.Background(), SessionEnded{RequestID: "r1", Reason: "USER_INITIATED"}, sess)
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.False(t, got.Attributes.HasOcean())
	assert.Equal(t, []string{"s1:USER_INITIATED"}, ended)
}

func TestRoute_CustomIntent(t *testing.T) {
	r := newTestRouter(WithIntent("Ping", func(in Input) Outcome {
		return Outcome{Attributes: in.Attributes, CardTitle: "Ping", Speech: "pong"}
	}))

	assert.True(t, r.Handles("Ping"))
	_, resp, err := r.Route(context.Background(), intentReq("Ping", nil), Session{})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Speech)
}

func TestRoute_HandlerEndingSessionWithReprompt(t *testing.T) {
	r := newTestRouter(WithIntent("Broken", func(in Input) Outcome {
		return Outcome{Speech: "bye", Reprompt: "still there?", EndSession: true}
	}))

	_, resp, err := r.Route(context.Background(), intentReq("Broken", nil), Session{})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrRepromptOnEndSession)
}

func TestRegistryMatchesIntentNames(t *testing.T) {
	want := []string{
		IntentHelp, IntentCancel, IntentStartOver, IntentStop,
		IntentCompleteListOfStorms, IntentListStormNames, IntentSetOceanPreference,
		IntentStormsFromPriorYears, IntentThisYearsStorms,
	}
	assert.ElementsMatch(t, want, newTestRouter().Intents())
}
