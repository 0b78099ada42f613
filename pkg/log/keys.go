package log

// Structured logging keys shared by all components.
const (
	LoggerNameKey = "logger"
	ComponentKey  = "component"
	ModelNameKey  = "model"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	ClassesKey    = "classes"
	ClassKey      = "class"
	TargetKey     = "target"
	IterationsKey = "iterations"
	AccuracyKey   = "accuracy"
	PredsKey      = "predictions"
	DurationMsKey = "duration_ms"
	SpeciesKey    = "species"
	MethodKey     = "method"
	PathKey       = "path"
	StatusKey     = "status"
	RequestIDKey  = "request_id"
)

// Operation values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationEncode    = "encode"
	OperationDiagnose  = "diagnose"
	OperationTrainAll  = "train_all"
	OperationLoadData  = "load_data"
	OperationRenderPNG = "render_chart"
)

// Phase values.
const (
	PhaseTraining  = "training"
	PhaseInference = "inference"
	PhaseStartup   = "startup"
)
