// Package resource provides cached asynchronous data loading.
//
// A Resource wraps a fetch function and exposes its lifecycle as a State
// (Pending, Loading, Ready, Error). Resources that share a Client share its
// in-flight guard: concurrent fetches of the same key collapse into one call.
// A Client can also carry a second-level Store (in memory or Redis) so that
// several processes reuse one fetched result.
//
// Basic Usage:
//
//	client := resource.NewClient(resource.WithLogger(logger))
//	defer client.Close()
//
//	users := resource.New(client, "users", func(ctx context.Context) ([]User, error) {
//	    return api.Users(ctx)
//	}).StaleTime(time.Minute)
//	users.Fetch()
//
//	return users.Snapshot().Match(
//	    resource.OnLoadingOrPending[[]User](func() *vdom.VNode { return Loading() }),
//	    resource.OnError[[]User](func(err error) *vdom.VNode { return Error(err) }),
//	    resource.OnReady(func(u []User) *vdom.VNode { return UserList(u) }),
//	)
package resource
