package workbench

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/workbench-api/internal/domain"
)

func TestDecideStart(t *testing.T) {
	cases := []struct {
		name     string
		resp     *TrackerResponse
		err      error
		wantNil  bool
		wantCode int
		manual   bool
	}{
		{name: "200", resp: &TrackerResponse{StatusCode: 200}, wantNil: true},
		{name: "504 pide entrada manual", resp: &TrackerResponse{StatusCode: 504, Body: []byte(`{"x":1}`)}, manual: true},
		{name: "404", resp: &TrackerResponse{StatusCode: 404, Body: []byte("no\n")}, wantCode: 404},
		{name: "transporte", err: errors.New("context deadline exceeded")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := decideStart(tc.resp, tc.err)
			if tc.wantNil {
				require.NoError(t, err)
				return
			}
			var manual *domain.ManualInputNeededError
			if tc.manual {
				require.ErrorAs(t, err, &manual)
				assert.Equal(t, `{"x":1}`, string(manual.Guidance))
				assert.NotErrorIs(t, err, domain.ErrExternalService)
				return
			}
			var ext *domain.ExternalServiceError
			require.ErrorAs(t, err, &ext)
			assert.Equal(t, tc.wantCode, ext.StatusCode)
			assert.Equal(t, trackerService, ext.Service)
		})
	}
}

func TestDecideStart_GuiaEsCopia(t *testing.T) {
	body := []byte(`{"a":"b"}`)
	err := decideStart(&TrackerResponse{StatusCode: 504, Body: body}, nil)
	body[2] = 'z'

	var manual *domain.ManualInputNeededError
	require.ErrorAs(t, err, &manual)
	assert.Equal(t, `{"a":"b"}`, string(manual.Guidance))
}

func TestDecideManualInput_SoloAceptaOK(t *testing.T) {
	require.NoError(t, decideManualInput(&TrackerResponse{StatusCode: 200}, nil))
	assert.ErrorIs(t, decideManualInput(&TrackerResponse{StatusCode: 504}, nil), domain.ErrExternalService)
}

func TestDecideStop_SeparaArtefactoDeExtras(t *testing.T) {
	res, err := decideStop(&TrackerResponse{
		StatusCode: 200,
		Body:       []byte(`{"ipfs_cid":"QmA","ipfs_link":"https://l","peso":3}`),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "QmA", res.ArtifactCID)
	assert.Equal(t, "https://l", res.ArtifactLink)
	assert.Equal(t, map[string]any{"peso": float64(3)}, res.Extra)
}

func TestDecideStop_CuerpoVacio(t *testing.T) {
	res, err := decideStop(&TrackerResponse{StatusCode: 200}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.ArtifactCID)
	assert.Nil(t, res.Extra)
}

func TestDecideStop_CuerpoNoJSON(t *testing.T) {
	_, err := decideStop(&TrackerResponse{StatusCode: 200, Body: []byte("[1,2]")}, nil)
	assert.ErrorIs(t, err, domain.ErrExternalService)
}
