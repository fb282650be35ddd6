// Package pipeline builds the star schema: it stages the raw sources,
// derives the dimension and fact tables, and hands each table to the sink.
package pipeline

import (
	"context"
	"slices"

	"songlake/internal/domain"
)

// Stage is one node of a run's dependency graph.
type Stage struct {
	Name      string
	DependsOn []string
	Run       func(ctx context.Context) error
}

// ResolveExecutionOrder computes a topological ordering of stages using
// Kahn's algorithm. Returns levels of stage names where each level can
// execute in parallel; names within a level are sorted. Returns an error if
// cycles, duplicate names or unknown deps exist.
func ResolveExecutionOrder(stages []Stage) ([][]string, error) {
	if len(stages) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(stages))
	dependents := make(map[string][]string) // dep name → stages that depend on it

	for _, s := range stages {
		if _, dup := inDegree[s.Name]; dup {
			return nil, domain.ErrValidation("duplicate stage: %s", s.Name)
		}
		inDegree[s.Name] = 0
	}

	for _, s := range stages {
		for _, dep := range s.DependsOn {
			if _, ok := inDegree[dep]; !ok {
				return nil, domain.ErrValidation("unknown dependency: %s", dep)
			}
			if dep == s.Name {
				return nil, domain.ErrValidation("self dependency: %s", s.Name)
			}
			dependents[dep] = append(dependents[dep], s.Name)
			inDegree[s.Name]++
		}
	}

	var levels [][]string
	var queue []string
	for name, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}

	processed := 0
	for len(queue) > 0 {
		slices.Sort(queue)
		levels = append(levels, queue)
		processed += len(queue)

		var next []string
		for _, name := range queue {
			for _, dep := range dependents[name] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		queue = next
	}

	if processed != len(stages) {
		return nil, domain.ErrValidation("cycle detected in stage dependencies")
	}
	return levels, nil
}
