package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/famomatic/ytstream/client"
	"github.com/famomatic/ytstream/internal/metrics"
	"github.com/famomatic/ytstream/internal/types"
)

const shutdownGrace = 10 * time.Second

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolutions and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr := lo.Must(cmd.Flags().GetString("addr"))
			cookie, err := a.cookie()
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           newHandler(a.newResolver(a.clientConfig()), cookie, a.reg, a.log),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(cmd.Context(), srv, a.log)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}

func runServer(ctx context.Context, srv *http.Server, log logrus.FieldLogger) error {
	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type errorBody struct {
	Code    client.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

func newHandler(r Resolver, cookie string, reg prometheus.Gatherer, log logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.HandleFunc("/v1/resolve", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := req.URL.Query()
		creq, err := requestFromQuery(q.Get("videoId"), q.Get("audioQuality"), q.Get("videoQuality"))
		if err != nil {
			writeError(w, http.StatusBadRequest, errorBody{Code: client.CodeInvalidInput, Message: err.Error()})
			return
		}
		creq.PlaylistID = q.Get("playlistId")
		creq.VisitorDataOverride = q.Get("visitorDataOverride")
		creq.Cookie = cookie

		res, err := r.Resolve(req.Context(), creq)
		if err != nil {
			code := client.ClassifyError(err)
			log.WithError(err).WithField("video_id", creq.VideoID).Info("resolve failed")
			writeError(w, statusFor(code), errorBody{Code: code, Message: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = writeJSON(w, res)
	})
	return mux
}

func requestFromQuery(videoID, audio, video string) (client.Request, error) {
	if videoID == "" {
		return client.Request{}, errors.New("videoId is required")
	}
	aq, err := types.ParseAudioQuality(audio)
	if err != nil {
		return client.Request{}, err
	}
	req := client.Request{VideoID: videoID, AudioQuality: aq}
	if video != "" {
		vq, err := types.ParseVideoQuality(video)
		if err != nil {
			return client.Request{}, err
		}
		req.VideoQuality = &vq
	}
	return req, nil
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = writeJSON(w, body)
}

func statusFor(code client.ErrorCode) int {
	switch code {
	case client.CodeInvalidInput:
		return http.StatusBadRequest
	case client.CodeNotPlayable:
		return http.StatusForbidden
	case client.CodeNoAudioStream, client.CodeNoVideoStream, client.CodeMissingExpiry:
		return http.StatusNotFound
	case client.CodeQueryFailed, client.CodeBadPlayerResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
