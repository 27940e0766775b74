package i18n

// Label keys.
const (
	Title          = "title"
	ParamCO2       = "co2"
	ParamAlbedo    = "albedo"
	ParamSolar     = "solar_intensity"
	ParamForest    = "forest_cover"
	Temperature    = "temperature"
	Energy         = "energy"
	Absorbed       = "absorbed"
	Outgoing       = "outgoing"
	Reflected      = "reflected"
	Net            = "net"
	Forcing        = "forcing"
	Equilibrium    = "equilibrium"
	StatusRunning  = "running"
	StatusPaused   = "paused"
	StatusDiverged = "diverged"
	Preset         = "preset"
	Theme          = "theme"
	Step           = "step"
	Help           = "help"
	HelpShort      = "help_short"
)

var tables = map[string]map[string]string{
	"en": {
		Title:          "Climate Simulator",
		ParamCO2:       "CO₂ (ppm)",
		ParamAlbedo:    "Albedo",
		ParamSolar:     "Solar intensity (W/m²)",
		ParamForest:    "Forest cover (%)",
		Temperature:    "Temperature (°C)",
		Energy:         "Energy (W/m²)",
		Absorbed:       "absorbed",
		Outgoing:       "outgoing",
		Reflected:      "reflected",
		Net:            "net",
		Forcing:        "forcing",
		Equilibrium:    "equilibrium {value} °C",
		StatusRunning:  "running",
		StatusPaused:   "paused",
		StatusDiverged: "diverged, press r to reset",
		Preset:         "preset: {name}",
		Theme:          "theme: {name}",
		Step:           "step {n}",
		Help:           "tab: select  ↑/↓: adjust  space: pause  r: reset  p: preset  l: language  t: theme  ?: help  q: quit",
		HelpShort:      "?: help  q: quit",
	},
	"es": {
		Title:          "Simulador climático",
		ParamCO2:       "CO₂ (ppm)",
		ParamAlbedo:    "Albedo",
		ParamSolar:     "Intensidad solar (W/m²)",
		ParamForest:    "Cobertura forestal (%)",
		Temperature:    "Temperatura (°C)",
		Energy:         "Energía (W/m²)",
		Absorbed:       "absorbida",
		Outgoing:       "saliente",
		Reflected:      "reflejada",
		Net:            "neta",
		Forcing:        "forzamiento",
		Equilibrium:    "equilibrio {value} °C",
		StatusRunning:  "en marcha",
		StatusPaused:   "en pausa",
		StatusDiverged: "divergió, pulse r para reiniciar",
		Preset:         "escenario: {name}",
		Theme:          "tema: {name}",
		Step:           "paso {n}",
		Help:           "tab: elegir  ↑/↓: ajustar  espacio: pausa  r: reiniciar  p: escenario  l: idioma  t: tema  ?: ayuda  q: salir",
		HelpShort:      "?: ayuda  q: salir",
	},
	"fr": {
		Title:          "Simulateur climatique",
		ParamCO2:       "CO₂ (ppm)",
		ParamAlbedo:    "Albédo",
		ParamSolar:     "Intensité solaire (W/m²)",
		ParamForest:    "Couvert forestier (%)",
		Temperature:    "Température (°C)",
		Energy:         "Énergie (W/m²)",
		Absorbed:       "absorbée",
		Outgoing:       "sortante",
		Reflected:      "réfléchie",
		Net:            "nette",
		Forcing:        "forçage",
		Equilibrium:    "équilibre {value} °C",
		StatusRunning:  "en cours",
		StatusPaused:   "en pause",
		StatusDiverged: "divergence, appuyez sur r",
		Preset:         "scénario : {name}",
		Theme:          "thème : {name}",
		Step:           "pas {n}",
		Help:           "tab : choisir  ↑/↓ : régler  espace : pause  r : réinitialiser  p : scénario  l : langue  t : thème  ? : aide  q : quitter",
		HelpShort:      "? : aide  q : quitter",
	},
	"pt": {
		Title:          "Simulador climático",
		ParamCO2:       "CO₂ (ppm)",
		ParamAlbedo:    "Albedo",
		ParamSolar:     "Intensidade solar (W/m²)",
		ParamForest:    "Cobertura florestal (%)",
		Temperature:    "Temperatura (°C)",
		Energy:         "Energia (W/m²)",
		Absorbed:       "absorvida",
		Outgoing:       "emitida",
		Reflected:      "refletida",
		Net:            "líquida",
		Forcing:        "forçamento",
		Equilibrium:    "equilíbrio {value} °C",
		StatusRunning:  "em execução",
		StatusPaused:   "pausado",
		StatusDiverged: "divergiu, pressione r",
		Preset:         "cenário: {name}",
		Theme:          "tema: {name}",
		Step:           "passo {n}",
		Help:           "tab: selecionar  ↑/↓: ajustar  espaço: pausa  r: reiniciar  p: cenário  l: idioma  t: tema  ?: ajuda  q: sair",
		HelpShort:      "?: ajuda  q: sair",
	},
}
