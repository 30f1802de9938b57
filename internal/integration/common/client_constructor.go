package common

import (
	"net/http"

	"github.com/futig/tutor-backend/internal/config"
	pkgHTTP "github.com/futig/tutor-backend/pkg/http"
	"go.uber.org/zap"
)

func httpOptions(cfg config.HTTPClientConfig, extra ...pkgHTTP.HttpOpts) []pkgHTTP.HttpOpts {
	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithTLSHandshakeTimeout(cfg.TLSHandshakeTimeout),
		pkgHTTP.WithMaxIdleConnsPerHost(cfg.MaxIdleConnsPerHost),
		pkgHTTP.WithRequestLogging(),
	}
	return append(opts, extra...)
}

// NewBaseConnector builds a JSON connector for REST providers without an SDK.
func NewBaseConnector(cfg config.HTTPClientConfig, baseURL string, logger *zap.Logger, extra ...pkgHTTP.HttpOpts) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: baseURL,
	}

	return pkgHTTP.NewConnector(connCfg, httpOptions(cfg, extra...)...)
}

// NewHTTPClient builds the tuned client handed to provider SDKs.
func NewHTTPClient(cfg config.HTTPClientConfig) *http.Client {
	return pkgHTTP.NewClient(httpOptions(cfg)...)
}
