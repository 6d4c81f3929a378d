// Пакет mcp реализует сервер Model Context Protocol поверх stdio:
// JSON-RPC 2.0, по одному сообщению на строку.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ghubliming/news-factchecker-mcp/internal/factcheck"
	"github.com/ghubliming/news-factchecker-mcp/internal/logger"
)

// Строки больше мегабайта не принимаем: защита от безразмерного ввода.
const maxLineBytes = 1 << 20

// Server обслуживает MCP-клиента на паре потоков. service может быть nil:
// тогда каждый инструмент и ресурс отвечает текстом о недоступности.
type Server struct {
	service *factcheck.Service
	in      io.Reader
	out     io.Writer

	mu sync.Mutex
	wg sync.WaitGroup
}

// NewServer собирает сервер над произвольной парой потоков.
// В бою это os.Stdin и os.Stdout, в тестах обычные буферы.
func NewServer(service *factcheck.Service, in io.Reader, out io.Writer) *Server {
	return &Server{service: service, in: in, out: out}
}

// Run читает запросы до EOF или отмены контекста. Каждый запрос
// обрабатывается в своей горутине: ping не ждёт завершения долгой проверки.
func (s *Server) Run(ctx context.Context) error {
	logger.Log.Info("MCP server listening on stdio")

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				s.wg.Wait()
				logger.Log.Info("MCP client disconnected")
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			s.wg.Add(1)
			go func(raw []byte) {
				defer s.wg.Done()
				s.handleLine(ctx, raw)
			}(line)
		}
	}
}

func (s *Server) handleLine(ctx context.Context, raw []byte) {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Warn("Failed to parse request")
		s.send(response{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "Parse error"}})
		return
	}
	if len(req.ID) == 0 {
		// Уведомление (например notifications/initialized): ответа не положено.
		logger.Log.WithFields(logrus.Fields{"method": req.Method}).Debug("Notification received")
		return
	}
	s.send(s.dispatch(ctx, req))
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	resp := response{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		logger.Log.Info("Client initializing")
		resp.Result = initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    capabilities{Tools: map[string]any{}, Resources: map[string]any{}},
			ServerInfo:      serverInfo{Name: serverName, Version: serverVersion},
		}
	case "ping":
		resp.Result = struct{}{}
	case "tools/list":
		resp.Result = toolsListResult{Tools: toolDescriptors()}
	case "tools/call":
		resp.Result = s.callTool(ctx, req.Params)
	case "resources/list":
		resp.Result = resourcesListResult{Resources: resourceDescriptors()}
	case "resources/read":
		resp.Result = s.readResource(ctx, req.Params)
	default:
		logger.Log.WithFields(logrus.Fields{"method": req.Method}).Warn("Unknown method")
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("Method not found: %s", req.Method)}
	}
	return resp
}

// send сериализует и пишет ответ одной строкой. Запись под мьютексом:
// ответы параллельных запросов не должны перемешиваться.
func (s *Server) send(resp response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Error("Failed to marshal response")
		return
	}
	payload = append(payload, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(payload); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err}).Error("Failed to write response")
	}
}
