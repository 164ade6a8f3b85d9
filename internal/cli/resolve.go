package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/famomatic/ytstream/client"
	"github.com/famomatic/ytstream/internal/cookies"
	"github.com/famomatic/ytstream/internal/innertube"
	"github.com/famomatic/ytstream/internal/types"
)

var cookieHost = strings.TrimPrefix(innertube.OriginYouTubeMusic, "https://")

func cookiesFromFile(fs afero.Fs, path string) (string, error) {
	return cookies.LoadFile(fs, path, cookieHost)
}

func (a *app) resolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <video-id|url>",
		Short: "Resolve playable stream URLs for one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.buildRequest(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := a.newResolver(a.clientConfig()).Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}
			if lo.Must(cmd.Flags().GetBool("json")) {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printResult(cmd.OutOrStdout(), res, time.Now())
			return nil
		},
	}
	cmd.Flags().StringP("audio-quality", "a", "auto", "audio preference: auto, low or high")
	cmd.Flags().StringP("video-quality", "q", "", "video height (144-2160) or auto; empty for audio only")
	cmd.Flags().String("playlist", "", "playlist id sent with the player query")
	cmd.Flags().Bool("json", false, "print the result as JSON")
	return cmd
}

func (a *app) buildRequest(cmd *cobra.Command, input string) (client.Request, error) {
	aq, err := types.ParseAudioQuality(lo.Must(cmd.Flags().GetString("audio-quality")))
	if err != nil {
		return client.Request{}, err
	}
	req := client.Request{
		VideoID:      input,
		PlaylistID:   lo.Must(cmd.Flags().GetString("playlist")),
		AudioQuality: aq,
	}
	if s := lo.Must(cmd.Flags().GetString("video-quality")); s != "" {
		vq, err := types.ParseVideoQuality(s)
		if err != nil {
			return client.Request{}, err
		}
		req.VideoQuality = &vq
	}
	if req.Cookie, err = a.cookie(); err != nil {
		return client.Request{}, err
	}
	return req, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(w io.Writer, res *client.PlaybackResult, now time.Time) {
	if d := res.VideoDetails; d != nil {
		fmt.Fprintf(w, "%s - %s (%s)\n", d.Title, d.Author, time.Duration(d.LengthSeconds)*time.Second)
	}
	fmt.Fprintf(w, "client:  %s\n", res.ClientName)
	fmt.Fprintf(w, "expires: %s\n", humanize.RelTime(res.ExpiresAt, now, "ago", "from now"))
	printStream(w, "audio", res.Audio)
	if res.Video != nil {
		printStream(w, "video", *res.Video)
	}
}

func printStream(w io.Writer, kind string, s client.Stream) {
	f := s.Format
	desc := fmt.Sprintf("itag %d, %s, %s", f.Itag, f.MimeType, humanize.SIWithDigits(float64(f.Bitrate), 0, "bps"))
	if f.Height > 0 {
		desc += fmt.Sprintf(", %dx%d", f.Width, f.Height)
	}
	if f.ContentLength > 0 {
		desc += ", " + humanize.Bytes(uint64(f.ContentLength))
	}
	fmt.Fprintf(w, "%s:   %s\n  %s\n", kind, desc, s.URL)
}
