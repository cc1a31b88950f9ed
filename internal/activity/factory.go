package activity

// Definition is the validated configuration shape the factory
// consumes. Producing it (from TOML definitions, wire requests) is the
// caller's job; the factory only assigns fields in dependency order.
type Definition struct {
	// SkeletonFiles maps logical names to absolute paths on disk.
	SkeletonFiles map[string]string
	EntryPoint    string
	// InputFiles are the learner's overrides. Nil means none were
	// submitted; non-nil must cover the skeleton key set exactly.
	InputFiles  map[string]string
	ContextPath string
	SuiteSource string
	WorkerName  string
	Question    string
}

// Factory builds activities whose suites resolve through the attached
// resolver.
type Factory struct {
	resolveSuite SuiteResolver
}

func NewFactory(resolver SuiteResolver) *Factory {
	return &Factory{resolveSuite: resolver}
}

// Build assigns the definition's fields in the order the activity's
// invariants require: skeletons first, then entry point, then inputs.
// Setter failures are propagated unchanged.
func (f *Factory) Build(def Definition) (*Activity, error) {
	act := New(f.resolveSuite)
	if err := act.SetSkeletonFiles(def.SkeletonFiles); err != nil {
		return nil, err
	}
	if err := act.SetEntryPoint(def.EntryPoint); err != nil {
		return nil, err
	}
	if def.InputFiles != nil {
		if err := act.SetInputFiles(def.InputFiles); err != nil {
			return nil, err
		}
	}
	if def.ContextPath != "" {
		if err := act.SetContextPath(def.ContextPath); err != nil {
			return nil, err
		}
	}
	if err := act.SetSuiteSource(def.SuiteSource); err != nil {
		return nil, err
	}
	act.SetQuestion(def.Question)
	act.SetWorkerName(def.WorkerName)
	return act, nil
}
