// Package semgen generates business-intelligence semantic models with large
// language models.
//
// The core types are:
//
//   - [Table], [Column], [Measure], [Relationship] and [Metadata] describe a
//     semantic model.
//   - [DecodeTable] strictly validates a JSON payload against that shape.
//   - [Generator] issues one structured-output request and returns a
//     validated [Table].
//   - [Hooks] observe the request before it is sent and any error it causes.
//
// # Quick Start
//
//	logger := log.New(log.LevelInfo)
//	generator, _ := semgen.NewGenerator(semgen.GeneratorOptions{
//	    Model: openai.New(),
//	    Hooks: semgen.DefaultHooks(logger),
//	})
//	table, err := generator.Generate(ctx, semgen.ExampleInstruction)
//
// Providers are in the [github.com/deepnoodle-ai/semgen/providers]
// subpackages.
package semgen
