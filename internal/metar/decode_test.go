package metar

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDecodeScenarios(t *testing.T) {
	t.Run("metric report", func(t *testing.T) {
		r, err := Decode("KXYZ 151854Z 18012KT 9999 FEW030 22/18 Q1013")
		require.NoError(t, err)

		assert.Equal(t, "KXYZ", r.Station)
		assert.Equal(t, ObservationTime{Day: 15, Hour: 18, Minute: 54}, r.Time)
		assert.Equal(t, &Wind{
			Direction: WindDirection{Kind: DirectionDegrees, Degrees: 180},
			Speed:     WindSpeed{Value: 12},
			Unit:      Knots,
		}, r.Wind)
		require.NotNil(t, r.Conditions)
		assert.Equal(t, ConditionsComposite, r.Conditions.Kind)
		assert.Equal(t, &Visibility{Kind: VisibilityMetres, Metres: 9999}, r.Conditions.Visibility)
		assert.Equal(t, []CloudLayer{{Density: CloudFew, Floor: known(30)}}, r.Conditions.Clouds)
		assert.Equal(t, &TemperatureDewpoint{
			Temperature: Temperature{Celsius: 22},
			Dewpoint:    Temperature{Celsius: 18},
		}, r.Temperature)
		assert.Equal(t, &Pressure{Kind: PressureHectopascals, Value: known(1013)}, r.Pressure)
		assert.Nil(t, r.Remarks)
	})

	t.Run("statute miles report", func(t *testing.T) {
		r, err := Decode("KXYZ 151854Z VRB03KT 1/2SM R04/0600FT SN BKN008 M02/M05 A2992 RMK TEST")
		require.NoError(t, err)

		assert.Equal(t, DirectionVariable, r.Wind.Direction.Kind)
		assert.Equal(t, 3, r.Wind.Speed.Value)
		require.NotNil(t, r.Conditions)
		c := r.Conditions
		assert.Equal(t, &Visibility{Kind: VisibilityFraction, Numerator: 1, Denominator: 2}, c.Visibility)
		assert.Equal(t, []RunwayVisualRange{{
			Runway: Runway{Number: 4},
			Value:  RVRDistance{Value: 600},
			Feet:   true,
		}}, c.RVR)
		assert.Equal(t, []Weather{{Phenomena: []Phenomenon{"SN"}}}, c.Weather)
		assert.Equal(t, "snow", c.Weather[0].Phenomena[0].Description())
		assert.Equal(t, []CloudLayer{{Density: CloudBroken, Floor: known(8)}}, c.Clouds)
		assert.Equal(t, -2, r.Temperature.Temperature.Celsius)
		assert.Equal(t, -5, r.Temperature.Dewpoint.Celsius)
		assert.Equal(t, &Pressure{Kind: PressureInches, Value: known(2992)}, r.Pressure)
		require.NotNil(t, r.Remarks)
		assert.Equal(t, "TEST", *r.Remarks)
	})

	t.Run("CAVOK", func(t *testing.T) {
		r, err := Decode("KXYZ 151854Z 00000KT CAVOK")
		require.NoError(t, err)

		assert.Equal(t, WindDirection{Kind: DirectionDegrees, Degrees: 0}, r.Wind.Direction)
		assert.Equal(t, WindSpeed{Value: 0}, r.Wind.Speed)
		assert.Equal(t, &Conditions{Kind: ConditionsCAVOK}, r.Conditions)
	})

	t.Run("hour out of range", func(t *testing.T) {
		_, err := Decode("KXYZ 152554Z 18012KT")
		require.Error(t, err)

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, StructuralError, pe.Kind)
		assert.Equal(t, 5, pe.Offset)
		assert.Equal(t, "observation time", pe.Element)
		assert.ErrorIs(t, err, ErrStructural)
	})

	t.Run("windshear next to runway state", func(t *testing.T) {
		r, err := Decode("KXYZ 151854Z 09010KT WS R09 R27/CLRD//")
		require.NoError(t, err)

		assert.Equal(t, []WindshearEntry{{Runway: &Runway{Number: 9}}}, r.Windshear)
		assert.Equal(t, []RunwayState{{
			Runway:  Runway{Number: 27},
			Cleared: true,
			Braking: unknownReading,
		}}, r.RunwayStates)
	})
}

func TestObservationTimeRanges(t *testing.T) {
	for day := 1; day <= 31; day++ {
		for hour := 0; hour <= 23; hour++ {
			for minute := 0; minute <= 59; minute++ {
				raw := fmt.Sprintf("KXYZ %02d%02d%02dZ", day, hour, minute)
				r, err := Decode(raw)
				if !assert.NoError(t, err, raw) {
					return
				}
				assert.Equal(t, ObservationTime{Day: day, Hour: hour, Minute: minute}, r.Time)
			}
		}
	}

	invalid := []string{
		"KXYZ 001200Z",
		"KXYZ 321200Z",
		"KXYZ 391200Z",
		"KXYZ 402359Z",
		"KXYZ 152400Z",
		"KXYZ 152900Z",
		"KXYZ 151260Z",
		"KXYZ 151299Z",
		"KXYZ 151200",
		"KXYZ 15120Z",
	}
	for _, raw := range invalid {
		t.Run(raw, func(t *testing.T) {
			_, err := Decode(raw)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, StructuralError, pe.Kind)
			assert.Equal(t, 5, pe.Offset)
		})
	}
}

func TestStationErrors(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		offset int
	}{
		{"empty", "", 0},
		{"lowercase", "kxyz 151854Z", 0},
		{"too short", "KXY 151854Z", 0},
		{"too long", "KXYZW 151854Z", 0},
		{"after keyword", "METAR K1YZ 151854Z", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, StructuralError, pe.Kind)
			assert.Equal(t, "station", pe.Element)
			assert.Equal(t, tt.offset, pe.Offset)
		})
	}
}

func TestTrailingInput(t *testing.T) {
	t.Run("unmatched token", func(t *testing.T) {
		_, err := Decode("KXYZ 151854Z 18012KT XYZ")
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, UnexpectedTrailingInput, pe.Kind)
		assert.Equal(t, 21, pe.Offset)
		assert.ErrorIs(t, err, ErrTrailingInput)
		assert.NotErrorIs(t, err, ErrStructural)
	})

	t.Run("partial cloud layer", func(t *testing.T) {
		_, err := Decode("KXYZ 151854Z 18012KT 9999 FEW0X5")
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, FieldShapeError, pe.Kind)
		assert.Equal(t, 29, pe.Offset)
		assert.Equal(t, "cloud layer", pe.Element)
		assert.ErrorIs(t, err, ErrFieldShape)
	})

	t.Run("junk after terminator", func(t *testing.T) {
		_, err := Decode("KXYZ 151854Z 18012KT= X")
		assert.ErrorIs(t, err, ErrTrailingInput)
	})

	t.Run("no partial report", func(t *testing.T) {
		r, err := Decode("KXYZ 151854Z 18012KT 9999 ???")
		assert.Nil(t, r)
		assert.Error(t, err)
	})
}

func TestTerminatorAndKeyword(t *testing.T) {
	for _, raw := range []string{
		"KXYZ 151854Z 18012KT 9999 FEW030 22/18 Q1013=",
		"KXYZ 151854Z 18012KT 9999 FEW030 22/18 Q1013 =",
		"KXYZ 151854Z 18012KT 9999 FEW030 22/18 Q1013\n",
	} {
		r, err := Decode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, known(1013), r.Pressure.Value)
	}

	r, err := Decode("SPECI KXYZ 151854Z COR AUTO 18012KT 9999 FEW030 22/18 Q1013")
	require.NoError(t, err)
	assert.Equal(t, "SPECI", r.Type)
	assert.True(t, r.Corrected)
	assert.True(t, r.Auto)
}

func TestUnknownSentinels(t *testing.T) {
	r, err := Decode("ETSB 032220Z AUTO /////KT //// // ////// ///// Q//// ///")
	require.NoError(t, err)

	assert.Equal(t, DirectionUnknown, r.Wind.Direction.Kind)
	assert.True(t, r.Wind.Speed.Unknown)
	c := r.Conditions
	require.NotNil(t, c)
	assert.Equal(t, VisibilityUnknown, c.Visibility.Kind)
	assert.Equal(t, []Weather{{Unknown: true}}, c.Weather)
	assert.Equal(t, []CloudLayer{{Density: CloudDensityUnknown, Floor: unknownReading}}, c.Clouds)
	assert.True(t, r.Temperature.Temperature.Unknown)
	assert.True(t, r.Temperature.Dewpoint.Unknown)
	assert.Equal(t, unknownReading, r.Pressure.Value)
	require.NotNil(t, r.ColourCode)
	assert.Equal(t, ColourUnknown, *r.ColourCode)

	r, err = Decode("KXYZ 151854Z 18012KT 9999 FEW030 22/18 Q1013 R88/////// R24L/45//95")
	require.NoError(t, err)
	assert.Equal(t, []RunwayState{
		{
			Runway:  Runway{All: true},
			Deposit: unknownReading,
			Extent:  unknownReading,
			Depth:   unknownReading,
			Braking: unknownReading,
		},
		{
			Runway:  Runway{Number: 24, Side: SideLeft},
			Deposit: known(4),
			Extent:  known(5),
			Depth:   unknownReading,
			Braking: known(95),
		},
	}, r.RunwayStates)

	r, err = Decode("LFVP 232230Z AUTO 24009KT 0450 R26/0800N FG VV/// 11/11 Q1015")
	require.NoError(t, err)
	require.NotNil(t, r.Conditions.VerticalVisibility)
	assert.True(t, r.Conditions.VerticalVisibility.Unknown)
	assert.Empty(t, r.Conditions.Clouds)
}

func TestWindshear(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   []WindshearEntry
		states int
	}{
		{
			name: "all runways",
			raw:  "KXYZ 151854Z 18012KT Q1013 WS ALL RWY",
			want: []WindshearEntry{{AllRunways: true}},
		},
		{
			name: "phases",
			raw:  "KXYZ 151854Z 18012KT Q1013 WS TKOF RWY09 LDG RWY27L",
			want: []WindshearEntry{
				{Phase: WindshearTakeoff, Runway: &Runway{Number: 9}},
				{Phase: WindshearLanding, Runway: &Runway{Number: 27, Side: SideLeft}},
			},
		},
		{
			name: "repeated groups",
			raw:  "KXYZ 151854Z 18012KT Q1013 WS R09 R12C WS ALL RWY",
			want: []WindshearEntry{
				{Runway: &Runway{Number: 9}},
				{Runway: &Runway{Number: 12, Side: SideCentre}},
				{AllRunways: true},
			},
		},
		{
			name:   "runway state is not windshear",
			raw:    "KXYZ 151854Z 18012KT Q1013 WS R09 R27/290195 R09/CLRD70",
			want:   []WindshearEntry{{Runway: &Runway{Number: 9}}},
			states: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Windshear)
			assert.Len(t, r.RunwayStates, tt.states)
		})
	}

	_, err := Decode("KXYZ 151854Z 18012KT Q1013 WS R88")
	assert.Error(t, err, "88 is only valid in runway state groups")
}

func TestRepeatedGroups(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, r *Report)
	}{
		{
			name: "none",
			raw:  "KXYZ 151854Z 18012KT",
			check: func(t *testing.T, r *Report) {
				assert.Nil(t, r.Conditions)
				assert.Empty(t, r.RecentWeather)
				assert.Empty(t, r.Windshear)
				assert.Empty(t, r.RunwayStates)
				assert.Empty(t, r.Trends)
				assert.Empty(t, r.CloudDirections)
			},
		},
		{
			name: "many RVR and weather",
			raw:  "ESSP 032220Z AUTO 02012KT 1200 R09/P1500N R27/P1500N R30/0600V1200FT/U -SN +SHRA VCFG FEW003/// BKN006/// OVC010/// M02/M03 Q0990 RESHUP RESN",
			check: func(t *testing.T, r *Report) {
				c := r.Conditions
				require.Len(t, c.RVR, 3)
				assert.Equal(t, RVRDistance{Value: 1500, Modifier: RVRAtLeast}, c.RVR[0].Value)
				assert.Equal(t, RVRNoChange, c.RVR[1].Trend)
				assert.Equal(t, &RVRDistance{Value: 1200}, c.RVR[2].Max)
				assert.True(t, c.RVR[2].Feet)
				assert.Equal(t, RVRIncreasing, c.RVR[2].Trend)
				assert.Equal(t, []Weather{
					{Intensity: IntensityLight, Phenomena: []Phenomenon{"SN"}},
					{Intensity: IntensityHeavy, Phenomena: []Phenomenon{"SH", "RA"}},
					{Intensity: IntensityVicinity, Phenomena: []Phenomenon{"FG"}},
				}, c.Weather)
				require.Len(t, c.Clouds, 3)
				for _, l := range c.Clouds {
					assert.Equal(t, CloudTypeUnknown, l.Type)
				}
				assert.Equal(t, []RecentWeather{
					{Phenomena: []Phenomenon{"SH", "UP"}},
					{Phenomena: []Phenomenon{"SN"}},
				}, r.RecentWeather)
			},
		},
		{
			name: "trends and cloud directions",
			raw:  "KXYZ 151854Z 18012KT 9999 FEW030CB 22/18 Q1013 BECMG FM1200 TL1400 25015G30KT 5000 RA TEMPO AT1300 NSW CAVOK CB/NE/E TCU/S",
			check: func(t *testing.T, r *Report) {
				require.Len(t, r.Trends, 2)
				becmg := r.Trends[0]
				assert.Equal(t, TrendBecoming, becmg.Kind)
				assert.Equal(t, []ChangeTime{
					{Indicator: ChangeFrom, Hour: 12},
					{Indicator: ChangeUntil, Hour: 14},
				}, becmg.Times)
				assert.Equal(t, intPtr(30), becmg.Wind.Gust)
				assert.Equal(t, 5000, becmg.Conditions.Visibility.Metres)

				tempo := r.Trends[1]
				assert.Equal(t, TrendTemporary, tempo.Kind)
				assert.True(t, tempo.NoSignificantWeather)
				assert.Equal(t, ConditionsCAVOK, tempo.Conditions.Kind)

				assert.Equal(t, []CloudDirection{
					{Type: CloudCumulonimbus, Sectors: []Compass{NorthEast, East}},
					{Type: CloudToweringCumulus, Sectors: []Compass{South}},
				}, r.CloudDirections)
			},
		},
		{
			name: "RVR at most",
			raw:  "EGLL 151850Z 24010KT 0300 R24/M0600 FG BKN001 08/08 Q1012",
			check: func(t *testing.T, r *Report) {
				require.Len(t, r.Conditions.RVR, 1)
				rvr := r.Conditions.RVR[0]
				assert.Equal(t, Runway{Number: 24}, rvr.Runway)
				assert.Equal(t, RVRDistance{Value: 600, Modifier: RVRAtMost}, rvr.Value)
				assert.Nil(t, rvr.Max)
				assert.Equal(t, "EGLL 151850Z 24010KT 0300 R24/M0600 FG BKN001 08/08 Q1012", r.String())
			},
		},
		{
			name: "directional visibility before RVR",
			raw:  "EGLL 151850Z 24010KT 2000 1200NW R27/0800 FG BKN002 10/10 Q1010",
			check: func(t *testing.T, r *Report) {
				c := r.Conditions
				assert.Equal(t, []DirectionalVisibility{
					{Visibility: Visibility{Kind: VisibilityMetres, Metres: 1200}, Sector: NorthWest},
				}, c.DirectionalVisibility)
				require.Len(t, c.RVR, 1)
				assert.Equal(t, Runway{Number: 27}, c.RVR[0].Runway)
				assert.Equal(t, RVRDistance{Value: 800}, c.RVR[0].Value)
			},
		},
		{
			name: "directional visibility",
			raw:  "KXYZ 151854Z 18012KT 4000 1500SW ////NE BR SCT010",
			check: func(t *testing.T, r *Report) {
				assert.Equal(t, []DirectionalVisibility{
					{Visibility: Visibility{Kind: VisibilityMetres, Metres: 1500}, Sector: SouthWest},
					{Visibility: Visibility{Kind: VisibilityUnknown}, Sector: NorthEast},
				}, r.Conditions.DirectionalVisibility)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Decode(tt.raw)
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestFieldShapes(t *testing.T) {
	t.Run("visibility", func(t *testing.T) {
		tests := []struct {
			raw  string
			want Visibility
		}{
			{"10SM", Visibility{Kind: VisibilityStatuteMiles, Whole: 10}},
			{"3SM", Visibility{Kind: VisibilityStatuteMiles, Whole: 3}},
			{"1 3/4SM", Visibility{Kind: VisibilityMixed, Whole: 1, Numerator: 3, Denominator: 4}},
			{"3/16SM", Visibility{Kind: VisibilityFraction, Numerator: 3, Denominator: 16}},
			{"0800", Visibility{Kind: VisibilityMetres, Metres: 800}},
		}
		for _, tt := range tests {
			r, err := Decode("KXYZ 151854Z 18012KT " + tt.raw + " 22/18")
			require.NoError(t, err, tt.raw)
			assert.Equal(t, &tt.want, r.Conditions.Visibility, tt.raw)
		}
	})

	t.Run("wind", func(t *testing.T) {
		r, err := Decode("KXYZ 151854Z 369P99MPS 350V010")
		require.NoError(t, err)
		assert.Equal(t, 369, r.Wind.Direction.Degrees)
		assert.Equal(t, WindSpeed{Value: 99, AtLeast: true}, r.Wind.Speed)
		assert.Equal(t, MetresPerSecond, r.Wind.Unit)
		assert.Equal(t, &WindVariation{From: 350, To: 10}, r.WindVariation)

		r, err = Decode("KXYZ 151854Z 270105G120KPH")
		assert.Error(t, err, "gust takes exactly two digits")
		assert.Nil(t, r)

		r, err = Decode("KXYZ 151854Z 250V300")
		assert.Error(t, err, "variation without wind")
		assert.Nil(t, r)
	})

	t.Run("braking codes", func(t *testing.T) {
		for _, code := range []string{"10", "89", "91", "95", "99", "//"} {
			_, err := Decode("KXYZ 151854Z 18012KT R27/CLRD" + code)
			assert.NoError(t, err, code)
		}
		for _, code := range []string{"09", "90", "96", "98"} {
			_, err := Decode("KXYZ 151854Z 18012KT R27/CLRD" + code)
			assert.Error(t, err, code)
		}
	})

	t.Run("sea state", func(t *testing.T) {
		r, err := Decode("LGKV 151850Z 18012KT 9999 FEW030 22/18 Q1013 W18/S4")
		require.NoError(t, err)
		assert.Equal(t, &SeaState{Temperature: Temperature{Celsius: 18}, Kind: "S", Value: known(4)}, r.SeaState)

		r, err = Decode("ENxx 151850Z 18012KT")
		assert.Error(t, err)
		assert.Nil(t, r)

		r, err = Decode("ENZV 151850Z 18012KT 9999 FEW030 08/03 Q1013 WM01/H015")
		require.NoError(t, err)
		assert.Equal(t, &SeaState{Temperature: Temperature{Celsius: -1, BelowZero: true}, Kind: "H", Value: known(15)}, r.SeaState)
	})

	t.Run("colour codes", func(t *testing.T) {
		for _, code := range []ColourCode{ColourBluePlus, ColourBlue, ColourWhite, ColourGreen, ColourYellow, ColourAmber, ColourRed} {
			r, err := Decode("ETSN 242120Z 30004KT 9999 FEW330 19/12 Q1016 " + string(code))
			require.NoError(t, err, code)
			assert.Equal(t, code, *r.ColourCode)
		}
	})

	t.Run("remarks", func(t *testing.T) {
		tests := []struct {
			raw  string
			want string
		}{
			{"RMK", ""},
			{"RMK ", ""},
			{"RMK AO2 SLP013", "AO2 SLP013"},
			{"RMK  AO2", " AO2"},
			{"RMK AO2  SLP013 $", "AO2  SLP013 $"},
			{"RMK TEST \n", "TEST"},
			{"RMK TEST=", "TEST"},
			{"RMK 29/-5 T01670111", "29/-5 T01670111"},
		}
		for _, tt := range tests {
			r, err := Decode("KXYZ 151854Z 18012KT " + tt.raw)
			require.NoError(t, err, tt.raw)
			require.NotNil(t, r.Remarks, tt.raw)
			assert.Equal(t, tt.want, *r.Remarks, tt.raw)
		}

		for _, raw := range []string{"RMK SLP+013", "RMK VIS 1.5"} {
			_, err := Decode("KXYZ 151854Z 18012KT " + raw)
			var pe *ParseError
			require.ErrorAs(t, err, &pe, raw)
			assert.Equal(t, UnexpectedTrailingInput, pe.Kind, raw)
		}
	})

	t.Run("trend change time", func(t *testing.T) {
		r, err := Decode("EGLL 151850Z 24010KT 9999 FEW030 15/09 Q1019 BECMG FM2530 9999")
		require.NoError(t, err)
		require.Len(t, r.Trends, 1)
		assert.Equal(t, []ChangeTime{{Indicator: ChangeFrom, Hour: 25, Minute: 30}}, r.Trends[0].Times)
		assert.Equal(t, "EGLL 151850Z 24010KT 9999 FEW030 15/09 Q1019 BECMG FM2530 9999", r.String())

		_, err = Decode("EGLL 151850Z 24010KT 9999 FEW030 15/09 Q1019 BECMG FM253 9999")
		assert.Error(t, err, "change time takes four digits")
	})
}

var roundTripReports = []string{
	"EDDM 222020Z AUTO VRB01KT CAVOK 20/13 Q1017 NOSIG",
	"EDDM 231420Z AUTO 27008KT 9999 -TSRA SCT///CB 24/18 Q1013 TEMPO 28020G35KT 3500 TSRA",
	"EDDM 231520Z AUTO 25012KT CAVOK 24/19 Q1012 RETSRA",
	"EKVG 232250Z AUTO 31006KT 1000 R12/0800N R30/P1500D BR OVC001/// 09/09 Q0995 RMK OVC000/// WIND SKEID 29012KT",
	"BGGH 232250Z 21007KT 0700 R22/P2000N -RA FG FEW002 BKN004 OVC006 05/05 Q1005",
	"LFVP 232230Z AUTO 24009KT 0450 R26/0800N FG VV/// 11/11 Q1015",
	"LESA 232230Z AUTO 27010KT 230V300 8000 -TSRA //////CB 20/16 Q1023",
	"EDSB 242150Z AUTO 18003KT 9999 NCD 20/14 Q1015",
	"EDMA 242150Z AUTO 00000KT 9999 // FEW130/// 16/13 Q1016",
	"ETSN 242120Z 30004KT 9999 FEW330 19/12 Q1016 BLU+",
	"ETSI 242120Z AUTO 22001KT //// // ////// 19/13 Q1015 ///",
	"ESSP 032220Z AUTO 02012KT 1200 R09/P1500N R27/P1500N -SN FEW003/// BKN006/// OVC010/// M02/M03 Q0990 RESHUP RESN",
	"ETSB 032220Z AUTO /////KT //// // ////// ///// Q//// ///",
	"ETSN 261720Z 32003KT 9999 -RA FEW020 SCT070 BKN090 17/15 Q1014 RERA BLU",
	"METAR KXYZ 151854Z VRB03KT 1 1/2SM R04/0600FT SN BKN008 M00/M05 A2992 RMK TEST",
	"KXYZ 151854Z 18012KT 10SM CLR 22/14 A2992 RMK  AO2 SLP013 $",
	"KXYZ 151854Z 09010KT WS R09 R27/CLRD//",
	"KXYZ 151854Z 09010KT 9999 CLR 10/01 Q1020 WS TKOF RWY09 WS ALL RWY R88/290195 W12/H120",
}

func TestRoundTrip(t *testing.T) {
	for _, raw := range roundTripReports {
		t.Run(raw, func(t *testing.T) {
			first, err := Decode(raw)
			require.NoError(t, err)

			rendered := first.String()
			second, err := Decode(rendered)
			require.NoError(t, err, rendered)

			second.Raw = first.Raw
			assert.Equal(t, first, second)
		})
	}
}

func TestRenderCanonical(t *testing.T) {
	for _, raw := range roundTripReports[:14] {
		r, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, r.String())
	}
}

func TestDecodeDeterministic(t *testing.T) {
	inputs := append([]string{"KXYZ 152554Z", "KXYZ 151854Z 18012KT FEW0X5", ""}, roundTripReports...)
	for _, raw := range inputs {
		r1, err1 := Decode(raw)
		r2, err2 := Decode(raw)
		assert.Equal(t, r1, r2, raw)
		assert.Equal(t, err1, err2, raw)
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Decode("KXYZ 151854Z 18012KT XYZ")
	require.Error(t, err)
	assert.Equal(t, `metar: unexpected_trailing_input at offset 21 (end of report): "XYZ"`, err.Error())
	assert.False(t, errors.Is(err, ErrFieldShape))
}
