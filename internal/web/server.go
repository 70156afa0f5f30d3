package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/san-kum/cardsort/internal/config"
	"github.com/san-kum/cardsort/internal/logging"
	"github.com/san-kum/cardsort/internal/run"
)

//go:embed static
var static embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Options struct {
	Addr string
	// PublicURL is what the QR code points at. Empty means the request host.
	PublicURL      string
	Autoplay       time.Duration
	HighlightClear time.Duration
	Logger         *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = config.DefaultAddr
	}
	if o.Autoplay <= 0 {
		o.Autoplay = config.DefaultAutoplay
	}
	if o.Logger == nil {
		o.Logger = logging.Logger
	}
	return o
}

// Server ties together HTTP serving and WebSocket handling for one controller.
type Server struct {
	hub    *Hub
	opts   Options
	logger *log.Logger
}

func New(ctrl *run.Controller, opts Options) *Server {
	opts = opts.withDefaults()
	return &Server{
		hub:    NewHub(ctrl, opts),
		opts:   opts,
		logger: opts.Logger,
	}
}

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(fmt.Sprintf("static fs: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))
	mux.HandleFunc("/api/qr", s.HandleQR)
	mux.HandleFunc("/ws", s.HandleWS)
	return mux
}

// JoinURL is the address printed and encoded for people joining from another device.
func (s *Server) JoinURL() string {
	if s.opts.PublicURL != "" {
		return s.opts.PublicURL
	}
	addr := s.opts.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

// ListenAndServe runs the hub and the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.hub.Run(ctx)

	srv := &http.Server{Addr: s.opts.Addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("serving", "addr", s.opts.Addr, "url", s.JoinURL())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", s.opts.Addr, err)
	}
	return nil
}

// HandleQR returns a PNG QR code for the join URL.
func (s *Server) HandleQR(w http.ResponseWriter, r *http.Request) {
	url := s.opts.PublicURL
	if url == "" {
		url = fmt.Sprintf("http://%s/", r.Host)
	}
	png, err := QRCode(url)
	if err != nil {
		s.logger.Error("qr", "url", url, "err", err)
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// HandleWS upgrades the connection and attaches it to the hub.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade", "err", err)
		return
	}

	client := NewClient(s.hub, conn)
	if !s.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
