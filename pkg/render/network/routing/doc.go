// Package routing turns connections into polylines.
//
// Routing is hint expansion, not pathfinding: each connection carries the
// sparse dx1/dx2/dy offsets a human left in the source document, and
// [Router.Route] expands them into an orthogonal polyline between the two
// resolved endpoints without avoiding obstacles. Endpoints that do not
// resolve produce no path; the connection is simply not drawn.
//
// [Simplify] removes duplicate and collinear waypoints, and [Bevel] replaces
// sharp corners with short diagonal cuts for display.
package routing
