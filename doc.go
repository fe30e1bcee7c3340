/*
Package smlogic simulates the logic blocks of the Scrap Mechanic sandbox game:
logic gates, timers and switches wired into a directed graph and advanced in
discrete ticks.

A Circuit owns its nodes and hands out integer handles to them:

	c := smlogic.New()
	in := c.AddInput(smlogic.Point{X: 40, Y: 40}, false)
	nor := c.AddGate(smlogic.NOR, smlogic.Point{X: 140, Y: 40})
	c.Connect(in, nor)
	c.Step()

Each tick first moves every node's current state into its previous state,
then recomputes every node from the previous states of its inputs. Feedback
loops are therefore legal and the outcome of a tick never depends on the
order in which nodes are visited. Timers delay their single input by
TimerStages ticks.

The engine never ticks by itself and is not safe for concurrent use. Package
runner provides a host that ticks periodically and serializes access.

Circuits are persisted as a JSON array of node records where edges are
indices into that array (see Serialize and Deserialize).
*/
package smlogic
