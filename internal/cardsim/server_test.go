package cardsim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/scoreboard-server/internal/protocol/cpower"
	"github.com/taoyao-code/scoreboard-server/internal/transport"
)

func startSim(t *testing.T, cfg Config) *Server {
	t.Helper()
	cfg.Addr = "127.0.0.1:0"
	s := New(cfg, nil)
	require.NoError(t, s.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func TestResponseFrame(t *testing.T) {
	f, err := cpower.Decode(Response(3, 0x4B))
	require.NoError(t, err)
	assert.True(t, f.IsResponse())
	assert.Equal(t, uint8(3), f.CardID)
	assert.Equal(t, []byte{0x4B, 0x00}, f.Payload)
}

func TestServer_AnswersClient(t *testing.T) {
	s := startSim(t, Config{CardID: 1})

	received := make(chan *cpower.Frame, 4)
	s.SetHandler(func(f *cpower.Frame) { received <- f })

	client := transport.NewClient(s.Addr(), transport.Options{CardID: 1, ReadTimeout: time.Second})
	defer client.Disconnect()

	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))

	resp, err := client.SendCommand(ctx, cpower.QueryVersion{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x4B, 0x00}, resp)

	select {
	case f := <-received:
		assert.Equal(t, []byte{0x4B, 0x01}, f.Payload)
	case <-time.After(time.Second):
		t.Fatal("frame not delivered to handler")
	}

	_, err = client.SendCommand(ctx, cpower.DisplayMessage{Display: cpower.SendPureText{WindowID: cpower.WindowHomeScore, Text: "12", Color: cpower.Green}})
	require.NoError(t, err)
	assert.Len(t, s.Frames(), 2)
}

func TestServer_SilentCausesTimeout(t *testing.T) {
	s := startSim(t, Config{CardID: 1, Silent: true})

	client := transport.NewClient(s.Addr(), transport.Options{CardID: 1, ReadTimeout: 100 * time.Millisecond})
	defer client.Disconnect()

	resp, err := client.SendCommand(context.Background(), cpower.QueryVersion{})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.True(t, client.IsConnected())
}
