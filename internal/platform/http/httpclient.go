package http

import (
	"net"
	"net/http"
	"time"

	"capm_backend/internal/shared/ratelimiter"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConns: 最大アイドル接続数
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//   - limiter: nil でなければ、各リクエストの送信前にトークンを待つ
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
func NewHTTPClient(timeout time.Duration, limiter ratelimiter.RateLimiterInterface) *http.Client {
	var rt http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	if limiter != nil {
		rt = &rateLimitedTransport{next: rt, limiter: limiter}
	}
	return &http.Client{Timeout: timeout, Transport: rt}
}

// rateLimitedTransport は上流APIの呼び出し回数制限を超えないように送信を待機させます。
type rateLimitedTransport struct {
	next    http.RoundTripper
	limiter ratelimiter.RateLimiterInterface
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
