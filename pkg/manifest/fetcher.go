package manifest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/perlytiara/modsync/pkg/config"
	"github.com/perlytiara/modsync/pkg/errors"
	"github.com/perlytiara/modsync/pkg/logging"
	"github.com/perlytiara/modsync/pkg/types"
)

// SelectorLatest asks the release index for its newest release instead of a
// pinned version tag.
const SelectorLatest = "latest"

// Fetcher retrieves release manifests and pack metadata.
type Fetcher struct {
	client      *resty.Client
	releaseBase string
	packInfoURL string
	log         zerolog.Logger
}

// NewFetcher builds a fetcher with the configured timeout and retry policy.
// Retries cover transient transport failures only; a well-formed error
// response is never retried.
func NewFetcher(cfg *config.Config) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.HTTPTimeout()).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &Fetcher{
		client:      client,
		releaseBase: strings.TrimRight(cfg.ReleaseAPIBaseURL, "/"),
		packInfoURL: strings.TrimRight(cfg.PackInfoBaseURL, "/"),
		log:         logging.GetLogger("manifest"),
	}
}

// Client exposes the underlying HTTP client so the download stage shares the
// same timeout and retry policy.
func (f *Fetcher) Client() *resty.Client { return f.client }

// ReleaseTag composes the release tag for an explicit version selector.
func ReleaseTag(packageType, version string) string {
	return packageType + "-v" + strings.TrimPrefix(version, "v")
}

// Fetch retrieves and parses the manifest for a package type. The selector
// is SelectorLatest or an explicit version ("1.2.3" or "v1.2.3").
//
// On success the returned manifest owns a temporary overrides directory;
// the caller must remove it when the sync is done.
func (f *Fetcher) Fetch(ctx context.Context, packageType, selector string) (*types.ModpackManifest, error) {
	url := f.releaseBase + "/releases/latest"
	if selector != SelectorLatest && selector != "" {
		url = f.releaseBase + "/releases/tags/" + ReleaseTag(packageType, selector)
	}

	f.log.Info().Str("packageType", packageType).Str("url", url).Msg("fetching release manifest")
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestFetch, "querying release index %s", url)
	}
	if resp.StatusCode() != 200 {
		return nil, errors.Newf(errors.ErrManifestFetch,
			"release index %s returned status %d", url, resp.StatusCode())
	}

	release := gjson.ParseBytes(resp.Body())
	assetURL, assetName, err := pickMrpackAsset(release, packageType)
	if err != nil {
		return nil, err
	}

	f.log.Debug().Str("asset", assetName).Msg("downloading modpack archive")
	archive, err := f.client.R().SetContext(ctx).Get(assetURL)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestFetch, "downloading %s", assetName)
	}
	if archive.StatusCode() != 200 {
		return nil, errors.Newf(errors.ErrManifestFetch,
			"downloading %s: status %d", assetName, archive.StatusCode())
	}

	m, err := parseMrpack(archive.Body())
	if err != nil {
		return nil, err
	}
	m.PackageType = packageType
	m.Selector = selector
	if m.VersionID == "" {
		m.VersionID = release.Get("tag_name").String()
	}

	f.log.Info().
		Str("pack", m.Name).
		Str("version", m.VersionID).
		Int("mods", len(m.Entries)).
		Msg("manifest ready")
	return m, nil
}

// pickMrpackAsset selects the release asset carrying the modpack for the
// requested package type. When the release holds a single .mrpack it wins
// regardless of name.
func pickMrpackAsset(release gjson.Result, packageType string) (url, name string, err error) {
	var mrpacks []gjson.Result
	release.Get("assets").ForEach(func(_, asset gjson.Result) bool {
		if strings.HasSuffix(strings.ToLower(asset.Get("name").String()), ".mrpack") {
			mrpacks = append(mrpacks, asset)
		}
		return true
	})
	if len(mrpacks) == 0 {
		return "", "", errors.Newf(errors.ErrManifestParse,
			"release %s has no .mrpack asset", release.Get("tag_name").String())
	}

	want := strings.ToLower(packageType)
	for _, asset := range mrpacks {
		if strings.Contains(strings.ToLower(asset.Get("name").String()), want) {
			return asset.Get("browser_download_url").String(), asset.Get("name").String(), nil
		}
	}
	return mrpacks[0].Get("browser_download_url").String(), mrpacks[0].Get("name").String(), nil
}

// PackInfo is the published metadata for a package type: where its
// automodpack server lives and which release is current.
type PackInfo struct {
	ServerName  string `json:"server_name"`
	ServerType  string `json:"server_type"`
	ServerIP    string `json:"server_ip"`
	ServerPort  int    `json:"server_port"`
	Fingerprint string `json:"fingerprint"`
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
}

// ServerProfile converts the pack info into the per-instance server profile
// shape.
func (p *PackInfo) ServerProfile() *types.ServerProfile {
	return &types.ServerProfile{
		Fingerprint: p.Fingerprint,
		ServerIP:    p.ServerIP,
		ServerPort:  p.ServerPort,
		ServerName:  p.ServerName,
	}
}

// FetchPackInfo retrieves the published pack metadata for a package type.
func (f *Fetcher) FetchPackInfo(ctx context.Context, packageType string) (*PackInfo, error) {
	url := fmt.Sprintf("%s/%s/", f.packInfoURL, packageType)

	var info PackInfo
	resp, err := f.client.R().SetContext(ctx).SetResult(&info).Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestFetch, "querying pack info %s", url)
	}
	if resp.StatusCode() != 200 {
		return nil, errors.Newf(errors.ErrManifestFetch,
			"pack info %s returned status %d", url, resp.StatusCode())
	}
	if info.ServerPort == 0 {
		info.ServerPort = 25565
	}
	return &info, nil
}
