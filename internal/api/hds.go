package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spectriclabs/heka-data-service/internal/cache"
	"github.com/spectriclabs/heka-data-service/internal/heka"
	"github.com/spectriclabs/heka-data-service/internal/heka/stimulus"
	"github.com/spectriclabs/heka-data-service/internal/heka/trees"
	"github.com/spectriclabs/heka-data-service/internal/numerical"
)

// openBundle opens and decodes the bundle named by the location and path
// parameters of the request.
func (a *API) openBundle(c echo.Context) (*heka.File, error) {
	locationName := c.Param("location")
	filePath := c.Param("*")
	reader, err := a.Source.Open(c.Request().Context(), locationName, filePath)
	if err != nil {
		return nil, err
	}
	f, err := heka.NewFile(reader, heka.WithLogger(a.Log.With(
		zap.String("location", locationName),
		zap.String("path", filePath),
	)))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", filePath)
	}
	return f, nil
}

// cached serves a response from the response cache, or builds, stores and
// serves it.
func (a *API) cached(c echo.Context, build func() (any, error)) error {
	useCache := a.Cfg.UseCache && a.Cache != nil
	key := cache.Key(c.Path(), c.Request().URL.Path, c.QueryParams().Encode())
	if useCache {
		if blob, err := a.Cache.Get(key, cache.Responses); err == nil {
			return c.JSONBlob(http.StatusOK, blob)
		}
	}

	v, err := build()
	if err != nil {
		return httpError(err)
	}
	blob, err := cache.Marshal(v)
	if err != nil {
		return httpError(err)
	}
	if useCache {
		if err := a.Cache.Put(key, cache.Responses, blob); err != nil {
			a.Log.Warn("cache response", zap.String("url", c.Request().URL.String()), zap.Error(err))
		}
	}
	return c.JSONBlob(http.StatusOK, blob)
}

// GetBundleHeader returns the bundle header and the generation its version
// selects.
func (a *API) GetBundleHeader(c echo.Context) error {
	f, err := a.openBundle(c)
	if err != nil {
		return httpError(err)
	}
	defer f.Close()

	return c.JSON(http.StatusOK, struct {
		*heka.BundleHeader
		Generation string             `json:"generation"`
		Groups     []heka.GroupSeries `json:"groups"`
	}{f.Header, f.Generation.Name, f.GroupsAndSeries()})
}

// GetTree returns one decoded sub-bundle tree. The ext query parameter
// picks the sub-bundle (pul by default) and depth limits how many levels
// below the root are returned.
func (a *API) GetTree(c echo.Context) error {
	ext := trees.ExtPulse
	depth := -1
	if err := echo.QueryParamsBinder(c).
		String("ext", &ext).
		Int("depth", &depth).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return a.cached(c, func() (any, error) {
		f, err := a.openBundle(c)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		root := f.Tree(ext)
		if root == nil {
			return nil, errors.Wrapf(heka.ErrPrecondition, "bundle has no %s tree", ext)
		}
		return treeJSON(root, depth), nil
	})
}

// GetChannels lists the channels recorded in a group.
func (a *API) GetChannels(c echo.Context) error {
	var group int
	if err := echo.PathParamsBinder(c).MustInt("group", &group).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := a.openBundle(c)
	if err != nil {
		return httpError(err)
	}
	defer f.Close()

	chans, err := f.Channels(group)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, chans)
}

type seriesQuery struct {
	Stim        string
	Fill        string
	ZeroOffset  bool
	StimChannel *int
	OutXSize    int
	Transform   string
}

func (a *API) parseSeriesQuery(c echo.Context) (heka.SeriesOptions, seriesQuery, error) {
	q := seriesQuery{
		Stim:       a.Cfg.StimulusMode,
		Fill:       a.Cfg.FillMode,
		ZeroOffset: true,
		Transform:  "mean",
	}
	stimChannel := -1
	err := echo.QueryParamsBinder(c).
		String("stim", &q.Stim).
		String("fill", &q.Fill).
		Bool("zero_offset", &q.ZeroOffset).
		Int("stim_channel", &stimChannel).
		Int("outxsize", &q.OutXSize).
		String("transform", &q.Transform).
		BindError()
	if err != nil {
		return heka.SeriesOptions{}, q, errors.Wrap(heka.ErrPrecondition, err.Error())
	}
	if stimChannel >= 0 {
		q.StimChannel = &stimChannel
	}
	if q.OutXSize < 0 {
		return heka.SeriesOptions{}, q, errors.Wrapf(heka.ErrPrecondition, "outxsize %d", q.OutXSize)
	}

	opts := heka.DefaultSeriesOptions()
	opts.ZeroOffset = q.ZeroOffset
	opts.StimChannel = q.StimChannel
	if opts.Stimulus, err = heka.ParseStimMode(q.Stim); err != nil {
		return opts, q, err
	}
	if opts.Fill, err = heka.ParseFillMode(q.Fill); err != nil {
		return opts, q, err
	}
	return opts, q, nil
}

// GetSeries returns one channel of a series across its sweeps, optionally
// with its reconstructed stimulus. With outxsize set every sweep is
// downsampled to that many points.
func (a *API) GetSeries(c echo.Context) error {
	var group, series, channel int
	if err := echo.PathParamsBinder(c).
		MustInt("group", &group).
		MustInt("series", &series).
		MustInt("channel", &channel).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	opts, q, err := a.parseSeriesQuery(c)
	if err != nil {
		return httpError(err)
	}

	return a.cached(c, func() (any, error) {
		f, err := a.openBundle(c)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		sd, err := f.SeriesData(group, series, channel, opts)
		if err != nil {
			return nil, err
		}
		resp := seriesJSON(sd, opts.Stimulus != heka.StimOff)
		if q.OutXSize > 0 {
			for i := range resp.Data {
				resp.Data[i] = numerical.Downsample(resp.Data[i], q.OutXSize, q.Transform)
				resp.Time[i] = numerical.Downsample(resp.Time[i], q.OutXSize, "first")
			}
			if resp.Stim != nil {
				for i := range resp.Stim.Data {
					resp.Stim.Data[i] = numerical.Downsample(resp.Stim.Data[i], q.OutXSize, q.Transform)
				}
			}
		}
		return resp, nil
	})
}

// GetStimulus reconstructs the stimulus of a series on its own.
func (a *API) GetStimulus(c echo.Context) error {
	var group, series int
	if err := echo.PathParamsBinder(c).
		MustInt("group", &group).
		MustInt("series", &series).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var experimental bool
	stimChannel := -1
	if err := echo.QueryParamsBinder(c).
		Bool("experimental", &experimental).
		Int("stim_channel", &stimChannel).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	opts := stimulus.Options{Experimental: experimental}
	if stimChannel >= 0 {
		opts.Channel = &stimChannel
	}

	return a.cached(c, func() (any, error) {
		f, err := a.openBundle(c)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		info, diags, err := f.Stimulus(group, series, opts)
		if err != nil {
			return nil, err
		}
		return stimulusJSON(info, diags), nil
	})
}
