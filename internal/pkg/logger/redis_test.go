package logger

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestRedisLoggerHook_ProcessHookPassesThroughResult(t *testing.T) {
	t.Parallel()

	hook := NewRedisLogger()
	wrapped := hook.ProcessHook(func(ctx context.Context, cmd redis.Cmder) error {
		return nil
	})

	cmd := redis.NewStringCmd(context.Background(), "get", "feed:cache:1")
	if err := wrapped(context.Background(), cmd); err != nil {
		t.Fatalf("无错误命令应透传 nil, 实际 %v", err)
	}
}

func TestRedisLoggerHook_ProcessHookPassesThroughError(t *testing.T) {
	t.Parallel()

	hook := NewRedisLogger()

	tests := []struct {
		name string
		err  error
	}{
		{"键不存在", redis.Nil},
		{"普通错误", errors.New("connection reset")},
		{"受保护命令", errors.New("WRONGPASS invalid password")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := hook.ProcessHook(func(ctx context.Context, cmd redis.Cmder) error {
				return tc.err
			})
			cmd := redis.NewStringCmd(context.Background(), "auth", "secret")
			if err := wrapped(context.Background(), cmd); !errors.Is(err, tc.err) {
				t.Fatalf("错误应原样透传, 期望 %v 实际 %v", tc.err, err)
			}
		})
	}
}

func TestRedisLoggerHook_DialHookPassesThroughError(t *testing.T) {
	t.Parallel()

	hook := NewRedisLogger()
	dialErr := errors.New("dial tcp: connection refused")
	wrapped := hook.DialHook(func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, dialErr
	})

	conn, err := wrapped(context.Background(), "tcp", "127.0.0.1:6379")
	if conn != nil {
		t.Fatalf("失败连接应返回 nil conn")
	}
	if !errors.Is(err, dialErr) {
		t.Fatalf("拨号错误应原样透传, 实际 %v", err)
	}
}

func TestRedisLoggerHook_ProcessPipelineHookPassesThroughError(t *testing.T) {
	t.Parallel()

	hook := NewRedisLogger()
	pipeErr := errors.New("pipeline broken")
	wrapped := hook.ProcessPipelineHook(func(ctx context.Context, cmds []redis.Cmder) error {
		return pipeErr
	})

	cmds := []redis.Cmder{redis.NewStringCmd(context.Background(), "get", "k")}
	if err := wrapped(context.Background(), cmds); !errors.Is(err, pipeErr) {
		t.Fatalf("管道错误应原样透传, 实际 %v", err)
	}
}
