package words_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"review-insights/analyzer/adapters/words"
	"review-insights/words/rpc"
	wordsnorm "review-insights/words/words"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWords(t *testing.T) *words.Client {
	t.Helper()

	listener := bufconn.Listen(1 << 20)
	s := grpc.NewServer(rpc.ServerOptions()...)
	rpc.RegisterWordsServer(s, rpc.NewServer(discard(), wordsnorm.New()))
	go func() {
		_ = s.Serve(listener)
	}()
	t.Cleanup(s.Stop)

	client, err := words.NewClient("passthrough:///bufnet", discard(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestClientNorm(t *testing.T) {
	client := startWords(t)

	require.NoError(t, client.Ping(context.Background()))

	docs, err := client.Norm(context.Background(), []string{"Battery life is great", "", "the and"})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"batteri", "life", "great"}, {}, {}}, docs)
}

func TestClientLargeBatches(t *testing.T) {
	testCases := []struct {
		desc  string
		texts []string
	}{
		{
			desc:  "many reviews over the default message size",
			texts: repeatText(strings.Repeat("battery great ", 150_000/14), 32),
		},
		{
			desc:  "one review over the phrase limit",
			texts: []string{strings.Repeat("battery great ", 1_200_000/14), "battery great"},
		},
	}

	client := startWords(t)
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			docs, err := client.Norm(context.Background(), tc.texts)
			require.NoError(t, err)
			require.Len(t, docs, len(tc.texts))
			for _, doc := range docs {
				require.NotEmpty(t, doc)
				require.Equal(t, []string{"batteri", "great"}, doc[:2])
			}
		})
	}
}

func repeatText(text string, n int) []string {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = text
	}
	return texts
}

func TestInvalidUTF8SameOnBothPaths(t *testing.T) {
	texts := []string{"good\xffbattery", "\xfe\xfflasts"}
	want := [][]string{{"good", "batteri"}, {"last"}}

	remote, err := startWords(t).Norm(context.Background(), texts)
	require.NoError(t, err)
	require.Equal(t, want, remote)

	local, err := words.NewLocal(wordsnorm.New()).Norm(context.Background(), texts)
	require.NoError(t, err)
	require.Equal(t, want, local)
}

func TestLocalNorm(t *testing.T) {
	local := words.NewLocal(wordsnorm.New())

	docs, err := local.Norm(context.Background(), []string{"Shipping was fast", ""})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"ship", "fast"}, {}}, docs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = local.Norm(ctx, []string{"text"})
	require.ErrorIs(t, err, context.Canceled)
}
