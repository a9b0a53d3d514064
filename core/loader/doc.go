// Package loader mounts the HTTP features of the relation manager.
//
// A feature owns a group of routes and decides for itself whether it can run:
// "links" needs declared relations, "integrity" needs a database and
// "snapshot" needs object storage. The start command registers all three and
// LoadAll mounts the enabled ones in registration order:
//
//	mgr := loader.NewManager()
//	mgr.Register(links.NewFeature(registry, log))
//	mgr.Register(snapshot.NewFeature(store, bucket, region, registry, log))
//	if err := mgr.LoadAll(app); err != nil {
//		log.Fatal("Failed to load features", zap.Error(err))
//	}
//
// Registering two features under one name is an error.
package loader
