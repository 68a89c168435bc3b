package threadparser

import "testing"

func TestKusabaxSwapsEmptyRepliesContainer(t *testing.T) {
	p := kusabaxParser{}

	merged := parseDoc(t, `<body>
		<div class="post" id="1"></div>
		<div class="replies"></div>
	</body>`)

	newDoc := parseDoc(t, `<body>
		<div class="post" id="1"></div>
		<div class="replies">
			<div class="reply" id="reply_2"></div>
			<div class="reply" id="reply_3"></div>
		</div>
	</body>`)

	inserted := p.MergeFrom(merged, newDoc)
	idsEqual(t, postIDs(inserted), []uint32{2, 3})
	idsEqual(t, postIDs(p.AllPosts(merged)), []uint32{1, 2, 3})
}

func TestKusabaxAppendsWhenRepliesAlreadyPresent(t *testing.T) {
	p := kusabaxParser{}

	merged := parseDoc(t, `<body>
		<div class="post" id="1"></div>
		<div class="replies">
			<div class="reply" id="reply_2"></div>
		</div>
	</body>`)

	newDoc := parseDoc(t, `<body>
		<div class="post" id="1"></div>
		<div class="replies">
			<div class="reply" id="reply_2"></div>
			<div class="reply" id="3"></div>
		</div>
	</body>`)

	inserted := p.MergeFrom(merged, newDoc)
	idsEqual(t, postIDs(inserted), []uint32{3})
	idsEqual(t, postIDs(p.AllPosts(merged)), []uint32{1, 2, 3})
}
