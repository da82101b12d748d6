package catalog

// Dataset declarations for the race weekend exports. Each session keeps its
// files under its own directory; weather is exported once for the whole
// weekend and scoped to both sessions.

func init() {
	Register(Descriptor{
		ID:       "race_results",
		Scope:    ScopeRace,
		Path:     "race/results.csv",
		Category: CategoryResults,
		Columns: []string{
			"POSITION", "VEHICLE_NUMBER", "DRIVER_NAME", "TEAM", "CLASS",
			"STATUS", "LAPS", "TOTAL_TIME", "GAP_FIRST", "BEST_LAP_TIME",
		},
	})
	Register(Descriptor{
		ID:       "qualifying_results",
		Scope:    ScopeQualifying,
		Path:     "qualifying/results.csv",
		Category: CategoryResults,
		Columns: []string{
			"POSITION", "NUMBER", "DRIVER_NAME", "TEAM", "CLASS",
			"STATUS", "LAPS", "TOTAL_TIME", "GAP_FIRST", "BEST_LAP_TIME",
		},
	})
	Register(Descriptor{
		ID:       "race_class_results",
		Scope:    ScopeRace,
		Path:     "race/class_results.csv",
		Category: CategoryClassResults,
		Columns: []string{
			"CLASS", "POSITION", "VEHICLE_NUMBER", "DRIVER_NAME", "LAPS", "TOTAL_TIME",
		},
	})
	Register(Descriptor{
		ID:       "qualifying_class_results",
		Scope:    ScopeQualifying,
		Path:     "qualifying/class_results.csv",
		Category: CategoryClassResults,
		Columns: []string{
			"CLASS", "POSITION", "NUMBER", "DRIVER_NAME", "LAPS", "TOTAL_TIME",
		},
	})
	Register(Descriptor{
		ID:       "weather",
		Scope:    ScopeBoth,
		Path:     "weather.csv",
		Category: CategoryWeather,
		Columns: []string{
			"TIME_UTC_SECONDS", "AIR_TEMP", "TRACK_TEMP", "HUMIDITY",
			"PRESSURE", "WIND_SPEED", "WIND_DIRECTION", "RAIN",
		},
	})
	Register(Descriptor{
		ID:       "race_lap_segments",
		Scope:    ScopeRace,
		Path:     "race/sectors.csv",
		Category: CategoryLapSegments,
		Columns: []string{
			"VEHICLE_NUMBER", "LAP_NUMBER", "S1", "S2", "S3",
		},
	})
	Register(Descriptor{
		ID:       "race_lap_timings",
		Scope:    ScopeRace,
		Path:     "race/laps.csv",
		Category: CategoryLapTimings,
		Columns: []string{
			"VEHICLE_NUMBER", "DRIVER_NAME", "LAP_NUMBER", "LAP_TIME",
			"S1", "S2", "S3", "HOUR",
		},
	})
	Register(Descriptor{
		ID:       "qualifying_lap_timings",
		Scope:    ScopeQualifying,
		Path:     "qualifying/laps.csv",
		Category: CategoryLapTimings,
		Columns: []string{
			"NUMBER", "DRIVER_NAME", "LAP_NUMBER", "LAP_TIME",
			"S1", "S2", "S3", "HOUR",
		},
	})
	Register(Descriptor{
		ID:       "race_best_laps",
		Scope:    ScopeRace,
		Path:     "race/best_laps.csv",
		Category: CategoryBestLaps,
		Columns: []string{
			"VEHICLE_NUMBER", "DRIVER_NAME", "CLASS", "BEST_LAP_TIME",
			"LAP_NUMBER", "AVG_SPEED",
		},
	})
	Register(Descriptor{
		ID:       "qualifying_best_laps",
		Scope:    ScopeQualifying,
		Path:     "qualifying/best_laps.csv",
		Category: CategoryBestLaps,
		Columns: []string{
			"NUMBER", "DRIVER_NAME", "CLASS", "BEST_LAP_TIME",
			"LAP_NUMBER", "AVG_SPEED",
		},
	})
	Register(Descriptor{
		ID:       "race_telemetry",
		Scope:    ScopeRace,
		Path:     "race/telemetry.csv",
		Category: CategoryTelemetry,
		Columns: []string{
			"VEHICLE_NUMBER", "TIME_UTC_SECONDS", "LAT", "LON", "SPEED_KPH",
			"RPM", "GEAR", "THROTTLE", "BRAKE", "ELAPSED_TIME",
		},
	})
	Register(Descriptor{
		ID:       "qualifying_telemetry",
		Scope:    ScopeQualifying,
		Path:     "qualifying/telemetry.csv",
		Category: CategoryTelemetry,
		Columns: []string{
			"NUMBER", "TIME_UTC_SECONDS", "LAT", "LON", "SPEED_KPH",
			"RPM", "GEAR", "THROTTLE", "BRAKE", "ELAPSED_TIME",
		},
	})
}
