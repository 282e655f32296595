package gocheck

// Check instruments model in place: every function's instruction list is
// replaced with one that includes the generated safety assertions,
// according to opts. The allocation registry is built once up front and
// shared read-only across every function; a fresh assertion cache and
// flavor analysis are used per function, since neither carries any
// meaning across a function boundary.
func Check(model *Model, opts *Options, ns Namespace, simp Simplifier, sizeOf SizeOfFunc) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = defaultLoggerFallback()
	}

	registry, err := CollectAllocations(model, ns)
	if err != nil {
		return err
	}
	logger.Printf("[alloc] collected %d allocation sites", registry.Len())

	for _, fn := range model.Functions {
		logger.Printf("[check] entering %s", fn.Name)
		fn.MarkBranchTargets()

		flavor := opts.Flavor
		if flavor == nil {
			local := NewLocalFlavorAnalysis()
			local.Run(fn)
			flavor = local
		}

		ctx := &buildCtx{
			cache:      NewAssertionCache(),
			simp:       simp,
			ns:         ns,
			sizeOf:     sizeOf,
			opts:       opts,
			flavor:     flavor,
			registry:   registry,
			entryPoint: model.EntryPoint,
		}
		before := len(fn.Instrs)
		fn.Instrs = runFunction(ctx, fn, opts)
		logger.Printf("[check] %s: %d -> %d instructions", fn.Name, before, len(fn.Instrs))
	}
	return nil
}
