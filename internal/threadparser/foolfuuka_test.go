package threadparser

import "testing"

func TestFoolFuukaReplacesEmptyThreadWithFirstReplies(t *testing.T) {
	p := foolFuukaParser{}

	merged := parseDoc(t, `<article id="1" class="thread post_is_op"></article>`)

	newDoc := parseDoc(t, `<article id="1" class="thread post_is_op">
		<aside class="posts">
			<article class="post" id="2"></article>
		</aside>
	</article>`)

	inserted := p.MergeFrom(merged, newDoc)
	idsEqual(t, postIDs(inserted), []uint32{2})
	idsEqual(t, postIDs(p.AllPosts(merged)), []uint32{2})
}

func TestFoolFuukaMergesThreeSnapshotsLikeOriginalFixture(t *testing.T) {
	p := foolFuukaParser{}

	// Mirrors the original OP-only -> two-post -> reply-swapped fixture set:
	// no aside at all until the first batch of replies lands.
	merged := parseDoc(t, `<article id="1" class="thread post_is_op"></article>`)

	second := parseDoc(t, `<article id="1" class="thread post_is_op">
		<aside class="posts">
			<article class="post" id="2"></article>
		</aside>
	</article>`)
	p.MergeFrom(merged, second)

	third := parseDoc(t, `<article id="1" class="thread post_is_op">
		<aside class="posts">
			<article class="post" id="3"></article>
		</aside>
	</article>`)
	inserted := p.MergeFrom(merged, third)

	idsEqual(t, postIDs(inserted), []uint32{3})
	idsEqual(t, postIDs(p.AllPosts(merged)), []uint32{2, 3})
}
