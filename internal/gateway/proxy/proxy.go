package proxy

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// APIPrefix — фиксированный префикс входящего API шлюза. Перед выбором
// нижестоящего сервиса префикс отбрасывается.
const APIPrefix = "/api/v1"

// requestExcludedHeaders — заголовки запроса, которые не пересылаются:
// Host и Content-Length задаются транспортом исходящего вызова заново.
var requestExcludedHeaders = []string{"Host", "Content-Length"}

// responseExcludedHeaders — hop-by-hop-заголовки ответа, которые теряют
// смысл после повторной отправки собственным транспортом шлюза.
var responseExcludedHeaders = []string{"Transfer-Encoding", "Connection"}

// Proxy пересылает запросы нижестоящим сервисам без изменения тела и статуса.
type Proxy struct {
	table      *Table
	httpClient *http.Client
	logger     *zap.Logger
}

// NewProxy создаёт прокси с указанной таблицей маршрутизации.
func NewProxy(table *Table, logger *zap.Logger) *Proxy {
	return &Proxy{
		table: table,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// filterHeaders копирует заголовки, пропуская перечисленные в exclude.
// Исходная структура заголовков не изменяется.
func filterHeaders(in http.Header, exclude ...string) http.Header {
	out := make(http.Header, len(in))
	for name, values := range in {
		skip := false
		for _, e := range exclude {
			if http.CanonicalHeaderKey(e) == name {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		for _, v := range values {
			out.Add(name, v)
		}
	}
	return out
}

// ServeHTTP пересылает запрос нижестоящему сервису, выбранному по пути.
// Ответ сервиса, включая коды ошибок, передаётся клиенту без изменений;
// фильтруются только hop-by-hop-заголовки. Недоступность сервиса
// превращается в 502, отсутствие маршрута — в 404 с диагностикой пути.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	forwardPath := r.URL.Path
	if len(forwardPath) >= len(APIPrefix) && forwardPath[:len(APIPrefix)] == APIPrefix {
		forwardPath = forwardPath[len(APIPrefix):]
	}

	target, ok := p.table.SelectTarget(forwardPath)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "No downstream service for path: %s", forwardPath)
		return
	}

	url := target + forwardPath
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	p.logger.Info("proxying request",
		zap.String("method", r.Method),
		zap.String("path", forwardPath),
		zap.String("target", target),
	)

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		p.logger.Error("build downstream request", zap.Error(err), zap.String("url", url))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	req.Header = filterHeaders(r.Header, requestExcludedHeaders...)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("downstream unreachable", zap.Error(err), zap.String("url", url))
		http.Error(w, "downstream service unreachable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	outHeaders := filterHeaders(resp.Header, responseExcludedHeaders...)
	for name, values := range outHeaders {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}

	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		p.logger.Error("relay downstream body", zap.Error(err), zap.String("url", url))
	}
}
