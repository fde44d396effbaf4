package pfcpnode

import "sync"

// Session belongs to one LocalNode<->RemoteNode pair. LocalSeid is
// allocated when the session is created (CP-function side) or assigned
// locally (UP-function side, echoed in the establishment response);
// RemoteSeid is learned from the peer's F-SEID once the session
// establishment exchange completes.
type Session struct {
	Remote     *RemoteNode
	LocalSeid  uint64
	RemoteSeid uint64
}

// SessionRegistry holds every session on a LocalNode, indexed two ways:
// by LocalSeid (the only index needed on the node that allocated it),
// and by (RemoteNode, RemoteSeid) for correlating inbound messages that
// only carry the peer's SEID.
type SessionRegistry struct {
	mu       sync.RWMutex
	byLocal  map[uint64]*Session
	byRemote map[remoteKey]*Session
}

type remoteKey struct {
	remote *RemoteNode
	seid   uint64
}

// NewSessionRegistry builds an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		byLocal:  make(map[uint64]*Session),
		byRemote: make(map[remoteKey]*Session),
	}
}

// Add inserts a session into both indices. RemoteSeid may be updated later
// via SetRemoteSeid once it is learned from the peer's F-SEID.
func (s *SessionRegistry) Add(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byLocal[sess.LocalSeid] = sess
	if sess.RemoteSeid != 0 {
		s.byRemote[remoteKey{sess.Remote, sess.RemoteSeid}] = sess
	}
}

// SetRemoteSeid records the peer's SEID for a session once learned, and
// indexes the session under it.
func (s *SessionRegistry) SetRemoteSeid(sess *Session, remoteSeid uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.RemoteSeid != 0 {
		delete(s.byRemote, remoteKey{sess.Remote, sess.RemoteSeid})
	}
	sess.RemoteSeid = remoteSeid
	s.byRemote[remoteKey{sess.Remote, remoteSeid}] = sess
}

// ByLocalSeid looks up a session by its locally allocated SEID.
func (s *SessionRegistry) ByLocalSeid(localSeid uint64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byLocal[localSeid]
}

// ByRemote looks up a session by the remote node and the SEID it declared.
func (s *SessionRegistry) ByRemote(remote *RemoteNode, remoteSeid uint64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byRemote[remoteKey{remote, remoteSeid}]
}

// Remove deletes a session from both indices, e.g. on SessionDeletionRequest
// completion or peer restart invalidation.
func (s *SessionRegistry) Remove(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byLocal, sess.LocalSeid)
	if sess.RemoteSeid != 0 {
		delete(s.byRemote, remoteKey{sess.Remote, sess.RemoteSeid})
	}
}

// InvalidateRemote removes every session belonging to remote, returning the
// removed sessions so the caller can release their SEIDs and notify the
// dispatcher. Removal completes before OnRemoteNodeRestart is delivered,
// so the handler never observes a stale session.
func (s *SessionRegistry) InvalidateRemote(remote *RemoteNode) []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []*Session
	for seid, sess := range s.byLocal {
		if sess.Remote == remote {
			removed = append(removed, sess)
			delete(s.byLocal, seid)
			delete(s.byRemote, remoteKey{remote, sess.RemoteSeid})
		}
	}
	return removed
}

// Count returns the number of sessions currently tracked.
func (s *SessionRegistry) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byLocal)
}
