package daggo

import (
	"encoding/binary"
	"fmt"
	"iter"
	"strconv"
)

// Id is a dense integer identifying one vertex in the graph.
// Ids are topologically sorted: an id is always greater than the ids of
// its ancestors within the same group.
type Id uint64

// Group separates distinct allocation ranges of [Id]s.
//
// Pre-allocating consecutive integers per group keeps id assignment less
// fragmented. (Group, Id) pairs remain topologically sorted.
type Group uint8

const (
	// GroupMaster holds ancestors(master).
	//   - Expected to have most of the commits in a repo.
	//   - Expected to be free from fragmentation: ancestors(master) can be
	//     represented as a single Span.
	GroupMaster Group = 0

	// GroupNonMaster holds anything not in ancestors(master), for example
	// public release branches or local feature branches.
	//   - Expected to have multiple heads, i.e. to be fragmented.
	//   - Expected to be sparsely referred.
	GroupNonMaster Group = 1

	// GroupCount is the number of defined groups.
	GroupCount = 2

	// groupBits is the number of top Id bits reserved for the group index.
	// One full byte makes it cheap to drop everything in a group via key
	// prefix scans.
	groupBits = 8
)

// AllGroups lists every group in id order.
var AllGroups = [GroupCount]Group{GroupMaster, GroupNonMaster}

const (
	// MinId is the smallest valid Id (first id of the first group).
	MinId Id = 0

	// MaxId is the largest valid Id (last id of the last group).
	MaxId Id = GroupCount<<(64-groupBits) - 1
)

// MinId returns the first [Id] in this group.
func (g Group) MinId() Id {
	return Id(uint64(g) << (64 - groupBits))
}

// MaxId returns the last [Id] in this group.
func (g Group) MaxId() Id {
	return g.MinId() + (1<<(64-groupBits) - 1)
}

// Span returns the [Span] covering every id in this group.
func (g Group) Span() Span {
	return Span{Low: g.MinId(), High: g.MaxId()}
}

// String implements fmt.Stringer.
func (g Group) String() string {
	switch g {
	case GroupMaster:
		return "Group Master"
	case GroupNonMaster:
		return "Group Non-Master"
	default:
		return "Group " + strconv.Itoa(int(g))
	}
}

// Group returns the [Group] an id belongs to.
// Ids outside the defined groups indicate a caller bug and panic.
func (i Id) Group() Group {
	g := Group(uint64(i) >> (64 - groupBits))
	if g >= GroupCount {
		panic(fmt.Sprintf("daggo: id %#x is out of the defined group range", uint64(i)))
	}
	return g
}

// Offset returns the position of the id within its group.
func (i Id) Offset() uint64 {
	return uint64(i - i.Group().MinId())
}

// Add returns the id n positions after i.
// The caller guarantees the result does not pass MaxId in valid use.
func (i Id) Add(n uint64) Id {
	return i + Id(n)
}

// Sub returns the id n positions before i.
// The caller guarantees the result does not pass MinId in valid use.
func (i Id) Sub(n uint64) Id {
	return i - Id(n)
}

// To iterates ids from i through other, both inclusive, in ascending order.
func (i Id) To(other Id) iter.Seq[Id] {
	return func(yield func(Id) bool) {
		for v := i; v <= other; v++ {
			if !yield(v) {
				return
			}
			if v == other {
				return
			}
		}
	}
}

// ToByteArray encodes the id as 8 big-endian bytes.
//
// The encoding is used as an index key by backing stores: big-endian keeps
// byte-lexicographic comparison identical to integer comparison, so range
// queries over keys are range queries over ids.
func (i Id) ToByteArray() [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(i))
	return b
}

// ToPrefixedByteArray is like ToByteArray with a single tag byte prepended.
// The tag namespaces encoded keys by logical level or category while
// preserving id order within the suffix.
func (i Id) ToPrefixedByteArray(prefix byte) [9]byte {
	var b [9]byte
	b[0] = prefix
	binary.BigEndian.PutUint64(b[1:], uint64(i))
	return b
}

// String renders master-group ids as their bare offset and non-master ids
// as "N<offset>", so the two numbering spaces are distinguishable at a
// glance.
func (i Id) String() string {
	g := i.Group()
	if g == GroupNonMaster {
		return "N" + strconv.FormatUint(i.Offset(), 10)
	}
	return strconv.FormatUint(i.Offset(), 10)
}
