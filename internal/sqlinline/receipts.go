package sqlinline

const QInsertReceipt = `--sql 3f1c6a2e-8d44-4b9a-b1e7-52c09e7d4a31
insert into donation_receipts(id, tx_hash, chain_id, token, amount, post_id, donor_did, status, created_at)
values (gen_random_uuid(), $1::text, $2::bigint, $3::text, $4::text, $5::text, $6::text, 'pending', now())
returning id;
`

const QListPendingReceipts = `--sql c8a94d07-21fb-4f53-9a66-0de4b81c37e5
select id, tx_hash, chain_id, token, amount, post_id, donor_did, created_at
from donation_receipts
where status = 'pending'
order by created_at asc
limit $1::int;
`

const QMarkReceiptRecorded = `--sql 6e2b5f90-4a7c-4d18-8c3b-f91a60de2b84
update donation_receipts
set status = 'recorded', stream_id = $2::text, recorded_at = now()
where id = $1::uuid and status = 'pending';
`

const QDeleteReceipt = `--sql a57d3e1b-9c02-46f8-b5da-7314c98f6e20
delete from donation_receipts
where id = $1::uuid;
`
